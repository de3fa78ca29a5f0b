// Package value defines the generic data model processed by the masking engine.
//
// A value is one of: nil, bool, a number (Go numeric types or json.Number), string,
// a sequence ([]any, Tuple or Set) or a mapping (map[string]any, map[any]any or
// *orderedmap.OrderedMap[string, any]). Everything else is treated as an opaque scalar.
package value

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind tags a node of the value tree.
type Kind int

const (
	KindUnknown Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindList
	KindTuple
	KindSet
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Tuple is an ordered sequence whose concrete kind survives masking.
type Tuple []any

// Set is an unordered collection of distinct scalars. Masking keeps the kind and
// collapses elements that become equal.
type Set []any

// KindOf returns the kind of v.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindList
	case Tuple:
		return KindTuple
	case Set:
		return KindSet
	case map[string]any, map[any]any, *orderedmap.OrderedMap[string, any]:
		return KindMap
	default:
		return KindUnknown
	}
}

// IsSequence reports whether v is a list, tuple or set.
func IsSequence(v any) bool {
	switch KindOf(v) { //nolint:exhaustive // only sequence kinds matter here
	case KindList, KindTuple, KindSet:
		return true
	default:
		return false
	}
}

// IsMapping reports whether v is one of the supported mapping types.
func IsMapping(v any) bool {
	return KindOf(v) == KindMap
}

// Elements returns the backing slice of a sequence. Writing to the returned slice
// writes through to v.
func Elements(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case Tuple:
		return t, true
	case Set:
		return t, true
	default:
		return nil, false
	}
}

// Rebuild wraps elems into a sequence of the same concrete kind as like.
// Sets are de-duplicated.
func Rebuild(like any, elems []any) any {
	switch like.(type) {
	case Tuple:
		return Tuple(elems)
	case Set:
		return Set(lo.UniqBy(elems, identity))
	default:
		return elems
	}
}

func identity(v any) string {
	return fmt.Sprintf("%T:%s", v, Render(v))
}
