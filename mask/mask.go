// Package mask implements the value level masking strategies: erase, custom, dynamic
// and regex.
package mask

import (
	"strings"
	"unicode/utf8"

	"github.com/code19m/errx"
	"github.com/samber/lo"

	"github.com/rise-and-shine/datamask/regexcache"
	"github.com/rise-and-shine/datamask/value"
)

const (
	// DefaultSentinel replaces erased values.
	DefaultSentinel = "*****"
	// DefaultMaskChar builds dynamic masks.
	DefaultMaskChar = '*'
)

// Option configures a Masker.
type Option func(*Masker)

// WithSentinel overrides DefaultSentinel.
func WithSentinel(s string) Option {
	return func(m *Masker) {
		m.sentinel = s
	}
}

// WithMaskChar overrides DefaultMaskChar.
func WithMaskChar(c rune) Option {
	return func(m *Masker) {
		m.maskChar = c
	}
}

// WithRegexCache shares a regex cache between maskers.
func WithRegexCache(c *regexcache.Cache) Option {
	return func(m *Masker) {
		if c != nil {
			m.cache = c
		}
	}
}

// Masker applies masking rules to values. It is safe for concurrent use.
type Masker struct {
	sentinel string
	maskChar rune
	cache    *regexcache.Cache
}

// NewMasker creates a Masker with the default sentinel, mask character and a private
// regex cache.
func NewMasker(opts ...Option) *Masker {
	m := &Masker{
		sentinel: DefaultSentinel,
		maskChar: DefaultMaskChar,
		cache:    regexcache.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Sentinel returns the string used for erased values.
func (m *Masker) Sentinel() string { return m.sentinel }

// Apply masks v as a single field:
//   - erase returns the sentinel
//   - custom returns the custom mask verbatim
//   - dynamic returns mask characters matching the rendered length of v, element-wise
//     for sequences
//   - regex substitutes every match in the rendered value
//
// On an invalid regex pattern v is returned unchanged together with an error coded
// regexcache.CodeInvalidPattern.
func (m *Masker) Apply(v any, rule Rule) (any, error) {
	switch rule.Kind() {
	case KindCustom:
		return rule.CustomMask, nil
	case KindDynamic:
		if elems, ok := value.Elements(v); ok {
			masked := lo.Map(elems, func(e any, _ int) any { return m.dynamic(e) })
			return value.Rebuild(v, masked), nil
		}
		return m.dynamic(v), nil
	case KindRegex:
		return m.regex(v, rule)
	default:
		return m.sentinel, nil
	}
}

// Whole masks v as the entire input.
//
// With the zero rule scalars and mappings become the sentinel and sequences become
// sequences of the same kind holding one sentinel per element. Otherwise mappings and
// sequences are walked and every scalar inside them is masked with Apply, so an empty
// mapping stays empty. v is not modified.
func (m *Masker) Whole(v any, rule Rule) (any, error) {
	if rule.IsZero() {
		if elems, ok := value.Elements(v); ok {
			return value.Rebuild(v, lo.RepeatBy(len(elems), func(int) any { return m.sentinel })), nil
		}
		return m.sentinel, nil
	}

	if rule.Kind() == KindRegex {
		if _, err := m.cache.Get(rule.RegexPattern); err != nil {
			return v, errx.Wrap(err)
		}
	}

	return m.walk(v, rule)
}

func (m *Masker) walk(v any, rule Rule) (any, error) {
	if src, ok := value.AsMapping(v); ok {
		out := src.Clone()
		for _, k := range src.Keys() {
			child, _ := src.Get(k)
			masked, err := m.walk(child, rule)
			if err != nil {
				return nil, err
			}
			out.Set(k, masked)
		}
		return out.Unwrap(), nil
	}

	if elems, ok := value.Elements(v); ok {
		masked := make([]any, len(elems))
		for i, e := range elems {
			me, err := m.walk(e, rule)
			if err != nil {
				return nil, err
			}
			masked[i] = me
		}
		return value.Rebuild(v, masked), nil
	}

	return m.Apply(v, rule)
}

func (m *Masker) dynamic(v any) string {
	return strings.Repeat(string(m.maskChar), utf8.RuneCountInString(value.Render(v)))
}

func (m *Masker) regex(v any, rule Rule) (any, error) {
	re, err := m.cache.Get(rule.RegexPattern)
	if err != nil {
		return v, errx.Wrap(err)
	}
	return re.ReplaceAllString(value.Render(v), expandTemplate(rule.MaskFormat)), nil
}

// expandTemplate rewrites backslash group references (\1, \g<1>, \g<name>) into the
// ${...} form understood by regexp.Regexp.Expand. A '$' in format is literal text.
func expandTemplate(format string) string {
	if !strings.ContainsAny(format, `\$`) {
		return format
	}

	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c == '$' {
			b.WriteString("$$")
			continue
		}
		if c != '\\' || i+1 == len(format) {
			b.WriteByte(c)
			continue
		}

		next := format[i+1]
		switch {
		case isDigit(next):
			j := i + 1
			for j < len(format) && isDigit(format[j]) {
				j++
			}
			b.WriteString("${" + format[i+1:j] + "}")
			i = j - 1
		case next == 'g' && strings.HasPrefix(format[i+2:], "<"):
			end := strings.IndexByte(format[i+3:], '>')
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString("${" + format[i+3:i+3+end] + "}")
			i += 3 + end
		case next == '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
