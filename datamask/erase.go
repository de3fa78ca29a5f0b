package datamask

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/code19m/errx"
	"github.com/samber/lo"

	"github.com/rise-and-shine/datamask/fieldpath"
	"github.com/rise-and-shine/datamask/mask"
	"github.com/rise-and-shine/datamask/val"
	"github.com/rise-and-shine/datamask/value"
)

// EraseOption configures a single Erase call.
type EraseOption func(*eraseOptions)

type eraseOptions struct {
	fields    []string
	hasFields bool
	rules     map[string]mask.Rule
	rule      mask.Rule
	raise     *bool
}

// WithFields masks only the values at the given paths, all with the same rule.
// The data must be a mapping.
func WithFields(paths ...string) EraseOption {
	return func(o *eraseOptions) {
		o.fields = paths
		o.hasFields = true
	}
}

// WithMaskingRules masks each path with its own rule. Problems with one path are
// reported as warnings and do not affect the others. Takes precedence over WithFields
// unless rules is empty.
func WithMaskingRules(rules map[string]mask.Rule) EraseOption {
	return func(o *eraseOptions) {
		o.rules = rules
	}
}

// WithCustomMask replaces masked values with s.
func WithCustomMask(s string) EraseOption {
	return func(o *eraseOptions) {
		o.rule.CustomMask = s
	}
}

// WithDynamicMask replaces masked values with mask characters matching their length.
func WithDynamicMask() EraseOption {
	return func(o *eraseOptions) {
		o.rule.DynamicMask = true
	}
}

// WithRegex replaces every match of pattern with format. format may reference groups
// as \1 or \g<name>. A '$' in format is kept as is.
func WithRegex(pattern, format string) EraseOption {
	return func(o *eraseOptions) {
		o.rule.RegexPattern = pattern
		o.rule.MaskFormat = format
	}
}

// WithRule sets all directives at once.
func WithRule(rule mask.Rule) EraseOption {
	return func(o *eraseOptions) {
		o.rule = rule
	}
}

// WithRaiseOnMissingFieldOverride overrides WithRaiseOnMissingField for one call.
func WithRaiseOnMissingFieldOverride(raise bool) EraseOption {
	return func(o *eraseOptions) {
		o.raise = &raise
	}
}

// Erase returns a masked copy of data. Warnings go to the warning handler.
//
// JSON text (string, json.RawMessage or []byte) is decoded first; text that is not
// valid JSON is masked as a plain string. Then:
//   - with WithMaskingRules each path is masked with its own rule
//   - with WithFields each path is masked with the rule built from the other options
//   - otherwise data is masked as a whole
func (d *DataMasking) Erase(data any, opts ...EraseOption) (any, error) {
	out, warnings, err := d.erase(data, opts)
	for _, w := range warnings {
		d.onWarning(w)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EraseReport is like Erase but returns the warnings instead of handing them to the
// warning handler.
func (d *DataMasking) EraseReport(data any, opts ...EraseOption) (any, []Warning, error) {
	return d.erase(data, opts)
}

func (d *DataMasking) erase(data any, opts []EraseOption) (any, []Warning, error) {
	var o eraseOptions
	for _, opt := range opts {
		opt(&o)
	}

	working, err := d.prepare(data)
	if err != nil {
		return nil, nil, errx.Wrap(err)
	}

	switch {
	case len(o.rules) > 0:
		return working, d.eraseRules(working, o.rules), nil
	case o.hasFields:
		raise := d.raiseOnMissingField
		if o.raise != nil {
			raise = *o.raise
		}
		warnings, err := d.eraseFields(working, o.fields, o.rule, raise)
		if err != nil {
			return nil, warnings, err
		}
		return working, warnings, nil
	default:
		return d.eraseWhole(working, o.rule)
	}
}

// prepare returns the working copy of data.
func (d *DataMasking) prepare(data any) (any, error) {
	var text []byte
	switch t := data.(type) {
	case string:
		text = []byte(t)
	case json.RawMessage:
		text = t
	case []byte:
		text = t
	default:
		return value.NormalizeWithDepth(data, d.maxDepth)
	}

	decoded, err := value.DecodeJSON(text)
	if err != nil {
		return string(text), nil //nolint:nilerr // not JSON, masked as plain text
	}
	return decoded, nil
}

func (d *DataMasking) eraseWhole(working any, rule mask.Rule) (any, []Warning, error) {
	out, err := d.provider.Erase(working, rule)
	if err == nil {
		return out, nil, nil
	}

	if errx.IsCodeIn(err, CodeInvalidPattern) {
		return working, []Warning{{Message: "Error masking value: " + err.Error()}}, nil
	}
	return nil, nil, errx.Wrap(err)
}

func (d *DataMasking) eraseFields(working any, fields []string, rule mask.Rule, raise bool) ([]Warning, error) {
	if len(fields) == 0 {
		return nil, errx.New(
			"[datamask]: fields must not be empty",
			errx.WithCode(CodeEmptyFields),
			errx.WithType(errx.T_Validation),
		)
	}

	if !value.IsMapping(working) {
		return nil, errx.New(
			"[datamask]: fields can only be applied to a mapping",
			errx.WithCode(CodeUnsupportedType),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"kind": value.KindOf(working).String()}),
		)
	}

	// every path must parse before anything is masked
	paths := make([]fieldpath.Path, len(fields))
	for i, raw := range fields {
		p, err := fieldpath.Parse(raw)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		paths[i] = p
	}

	var warnings []Warning
	for i, p := range paths {
		raw := fields[i]

		locs := fieldpath.Select(working, p)
		if len(locs) == 0 {
			if raise {
				return warnings, errx.New(
					fmt.Sprintf("[datamask]: field or expression %s not found", raw),
					errx.WithCode(CodeFieldNotFound),
					errx.WithType(errx.T_NotFound),
					errx.WithDetails(errx.D{"path": raw}),
				)
			}
			warnings = append(warnings, Warning{
				Path:    raw,
				Message: fmt.Sprintf("Field or expression %s not found", raw),
			})
			continue
		}

		warnings = append(warnings, d.maskLocations(raw, locs, rule)...)
	}

	return warnings, nil
}

func (d *DataMasking) eraseRules(working any, rules map[string]mask.Rule) []Warning {
	var warnings []Warning

	paths := lo.Keys(rules)
	slices.Sort(paths)

	for _, raw := range paths {
		rule := rules[raw]

		if err := val.ValidateSchema(rule); err != nil {
			warnings = append(warnings, processingWarning(raw, err))
			continue
		}

		p, err := fieldpath.Parse(raw)
		if err != nil {
			warnings = append(warnings, processingWarning(raw, err))
			continue
		}

		locs := fieldpath.Select(working, p)
		if len(locs) == 0 {
			warnings = append(warnings, Warning{
				Path:    raw,
				Message: fmt.Sprintf("No matches found for path %s", raw),
			})
			continue
		}

		warnings = append(warnings, d.maskLocations(raw, locs, rule)...)
	}

	return warnings
}

// maskLocations masks every location in place. A location the provider fails on
// keeps its value.
func (d *DataMasking) maskLocations(raw string, locs []fieldpath.Location, rule mask.Rule) []Warning {
	var warnings []Warning
	for _, loc := range locs {
		masked, err := d.provider.EraseField(loc.Value, rule)
		if err != nil {
			warnings = append(warnings, Warning{
				Path:    raw,
				Message: fmt.Sprintf("Error masking value for path %s: %s", raw, err.Error()),
			})
			continue
		}
		loc.Set(masked)
	}
	return warnings
}

func processingWarning(raw string, err error) Warning {
	return Warning{
		Path:    raw,
		Message: fmt.Sprintf("Error processing path %s: %s", raw, err.Error()),
	}
}
