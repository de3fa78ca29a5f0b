// Package fieldpath parses dotted path expressions and locates the values they
// address inside a value tree.
//
// Grammar:
//
//	a.b.c        literal keys separated by dots
//	a.'1'.None   quoted literal, may contain dots, brackets, \' and \\
//	a..'4'       recursive descent: key '4' at any depth below a
//	a.*  a[*]    every child of a
//	a[0] a[-1]   sequence index, negative counts from the end
//	a['x.y']     bracketed quoted literal
//	$.a  $..a    optional root marker
package fieldpath

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// SegmentKind tags a path segment.
type SegmentKind int

const (
	// Literal matches a mapping key exactly.
	Literal SegmentKind = iota + 1
	// Recursive makes the following segment match at any depth below the current node.
	Recursive
	// Wildcard matches every mapping value or sequence element.
	Wildcard
	// Index matches one sequence element.
	Index
)

func (k SegmentKind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Recursive:
		return "recursive"
	case Wildcard:
		return "wildcard"
	case Index:
		return "index"
	default:
		return "segment(" + strconv.Itoa(int(k)) + ")"
	}
}

// Segment is one step of a Path.
type Segment struct {
	Kind  SegmentKind
	Key   string // set for Literal
	Index int    // set for Index
}

// Path is a parsed, non-empty path expression.
type Path []Segment

// String returns the canonical spelling of p.
func (p Path) String() string {
	var b strings.Builder
	afterRecursive := false

	for i, seg := range p {
		switch seg.Kind {
		case Recursive:
			b.WriteString("..")
			afterRecursive = true
			continue
		case Index:
			if i == 0 {
				b.WriteByte('$')
			}
			b.WriteString("[" + strconv.Itoa(seg.Index) + "]")
		case Wildcard:
			if i > 0 && !afterRecursive {
				b.WriteByte('.')
			}
			b.WriteByte('*')
		case Literal:
			if i > 0 && !afterRecursive {
				b.WriteByte('.')
			}
			b.WriteString(Quote(seg.Key))
		}
		afterRecursive = false
	}

	return b.String()
}

// Quote returns key as a path segment, quoting it when it would not parse back
// to the same literal.
func Quote(key string) string {
	if key != "" && key != "*" && !strings.HasPrefix(key, "$") &&
		!strings.HasPrefix(key, "'") && !strings.ContainsAny(key, ".[]") {
		return key
	}

	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range key {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}

// Join builds a path expression from raw mapping keys.
func Join(keys ...string) string {
	return strings.Join(lo.Map(keys, func(k string, _ int) string { return Quote(k) }), ".")
}
