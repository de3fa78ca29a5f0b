package value

import (
	"slices"

	"github.com/samber/lo"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Mapping is a uniform view over the supported mapping types.
// Keys are always exposed in their string form.
type Mapping interface {
	// Len returns the number of entries.
	Len() int
	// Keys returns keys in a deterministic order: insertion order for ordered maps,
	// lexical order otherwise.
	Keys() []string
	// Get returns the value stored under key.
	Get(key string) (any, bool)
	// Set stores v under key, reusing the original key when one matches.
	Set(key string, v any)
	// Clone returns a shallow copy of the mapping with the same concrete type.
	Clone() Mapping
	// Unwrap returns the underlying mapping value.
	Unwrap() any
}

// AsMapping returns a Mapping view of v.
func AsMapping(v any) (Mapping, bool) {
	switch t := v.(type) {
	case map[string]any:
		return stringMap(t), true
	case map[any]any:
		return anyMap(t), true
	case *orderedmap.OrderedMap[string, any]:
		if t == nil {
			return nil, false
		}
		return orderedMap{t}, true
	default:
		return nil, false
	}
}

type stringMap map[string]any

func (m stringMap) Len() int { return len(m) }

func (m stringMap) Keys() []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

func (m stringMap) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m stringMap) Set(key string, v any) { m[key] = v }

func (m stringMap) Clone() Mapping {
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return stringMap(c)
}

func (m stringMap) Unwrap() any { return map[string]any(m) }

// anyMap holds scalar keys of any type, matched by their rendered form.
type anyMap map[any]any

func (m anyMap) Len() int { return len(m) }

func (m anyMap) Keys() []string {
	keys := lo.Map(lo.Keys(m), func(k any, _ int) string { return KeyString(k) })
	slices.Sort(keys)
	return keys
}

func (m anyMap) lookup(key string) (any, bool) {
	if _, ok := m[key]; ok {
		return key, true
	}
	for k := range m {
		if KeyString(k) == key || keywordName(k) == key {
			return k, true
		}
	}
	return nil, false
}

// keywordName returns the keyword spelling paths use for nil and bool keys:
// None, True and False. Other keys have none.
func keywordName(k any) string {
	switch t := k.(type) {
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

func (m anyMap) Get(key string) (any, bool) {
	k, ok := m.lookup(key)
	if !ok {
		return nil, false
	}
	return m[k], true
}

func (m anyMap) Set(key string, v any) {
	if k, ok := m.lookup(key); ok {
		m[k] = v
		return
	}
	m[key] = v
}

func (m anyMap) Clone() Mapping {
	c := make(map[any]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return anyMap(c)
}

func (m anyMap) Unwrap() any { return map[any]any(m) }

type orderedMap struct {
	om *orderedmap.OrderedMap[string, any]
}

func (m orderedMap) Len() int { return m.om.Len() }

func (m orderedMap) Keys() []string {
	keys := make([]string, 0, m.om.Len())
	for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (m orderedMap) Get(key string) (any, bool) { return m.om.Get(key) }

func (m orderedMap) Set(key string, v any) { m.om.Set(key, v) }

func (m orderedMap) Clone() Mapping {
	c := orderedmap.New[string, any]()
	for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
		c.Set(pair.Key, pair.Value)
	}
	return orderedMap{c}
}

func (m orderedMap) Unwrap() any { return m.om }

// KeyString renders a mapping key the way path expressions address it.
func KeyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return Render(k)
}
