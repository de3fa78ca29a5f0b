package value

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Render returns the display form of v: strings as-is, scalars in their usual
// textual form, nil as "null" and containers as compact JSON.
func Render(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	}

	if IsSequence(v) || IsMapping(v) {
		raw, err := json.Marshal(jsonCompatible(v))
		if err == nil {
			return string(raw)
		}
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// jsonCompatible rewrites map[any]any nodes into string-keyed maps so the tree
// can be handed to encoding/json.
func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[KeyString(k)] = jsonCompatible(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = jsonCompatible(val)
		}
		return out
	case *orderedmap.OrderedMap[string, any]:
		if t == nil {
			return nil
		}
		out := orderedmap.New[string, any]()
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, jsonCompatible(pair.Value))
		}
		return out
	}

	if elems, ok := Elements(v); ok {
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = jsonCompatible(e)
		}
		return out
	}
	return v
}

// MarshalJSON encodes v, keeping the key order of ordered maps.
func MarshalJSON(v any) ([]byte, error) {
	return json.Marshal(jsonCompatible(v))
}

// MarshalJSONIndent is MarshalJSON with indentation.
func MarshalJSONIndent(v any, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(jsonCompatible(v), prefix, indent)
}
