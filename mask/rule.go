package mask

// Kind is the resolved masking strategy of a Rule.
type Kind int

const (
	// KindErase replaces values with the sentinel.
	KindErase Kind = iota
	// KindCustom replaces values with a caller supplied string.
	KindCustom
	// KindDynamic replaces values with a run of mask characters as long as the rendered value.
	KindDynamic
	// KindRegex substitutes every match of a pattern with a format.
	KindRegex
)

func (k Kind) String() string {
	switch k {
	case KindErase:
		return "erase"
	case KindCustom:
		return "custom"
	case KindDynamic:
		return "dynamic"
	case KindRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// Rule is a masking directive. The zero Rule erases.
//
// When more than one directive is set, CustomMask wins over DynamicMask, which wins
// over RegexPattern/MaskFormat. A regex is only used when both the pattern and the
// format are present.
type Rule struct {
	CustomMask   string `json:"custom_mask,omitempty"   yaml:"custom_mask"`
	DynamicMask  bool   `json:"dynamic_mask,omitempty"  yaml:"dynamic_mask"`
	RegexPattern string `json:"regex_pattern,omitempty" yaml:"regex_pattern" validate:"required_with=MaskFormat"`
	MaskFormat   string `json:"mask_format,omitempty"   yaml:"mask_format"   validate:"required_with=RegexPattern"`
}

// Kind resolves the strategy the rule selects.
func (r Rule) Kind() Kind {
	switch {
	case r.CustomMask != "":
		return KindCustom
	case r.DynamicMask:
		return KindDynamic
	case r.RegexPattern != "" && r.MaskFormat != "":
		return KindRegex
	default:
		return KindErase
	}
}

// IsZero reports whether no directive is set.
func (r Rule) IsZero() bool {
	return r == Rule{}
}
