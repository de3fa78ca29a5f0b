package value

import (
	"encoding"
	"encoding/json"
	"reflect"
	"slices"
	"strings"

	"github.com/code19m/errx"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	// DefaultMaxDepth bounds the nesting depth accepted by Normalize.
	DefaultMaxDepth = 1000

	// CodeMaxDepthExceeded is returned when input nests deeper than the allowed depth.
	// Cyclic pointer graphs end up here too.
	CodeMaxDepthExceeded = "MAX_DEPTH_EXCEEDED"
)

//nolint:gochecknoglobals // reflect types are static lookups
var (
	orderedMapType    = reflect.TypeFor[*orderedmap.OrderedMap[string, any]]()
	jsonNumberType    = reflect.TypeFor[json.Number]()
	tupleType         = reflect.TypeFor[Tuple]()
	setType           = reflect.TypeFor[Set]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
)

// Normalize returns a deep copy of v expressed in the generic value model.
// See NormalizeWithDepth.
func Normalize(v any) (any, error) {
	return NormalizeWithDepth(v, DefaultMaxDepth)
}

// NormalizeWithDepth returns a deep copy of v expressed in the generic value model:
//   - structs become ordered maps keyed by json tag > yaml tag > field name,
//     skipping unexported fields and fields tagged "-"
//   - typed slices become []any, arrays become Tuple, map[K]struct{} becomes Set
//   - typed maps become map[string]any (string keys) or map[any]any
//   - pointers and interfaces are dereferenced
//   - types implementing encoding.TextMarshaler or json.Marshaler are rendered through them
//
// Scalars of predeclared types are kept as they are so untouched data compares equal
// to the input.
func NormalizeWithDepth(v any, maxDepth int) (any, error) {
	n := normalizer{maxDepth: maxDepth}
	out, err := n.normalize(reflect.ValueOf(v), 0)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return out, nil
}

type normalizer struct {
	maxDepth int
}

func (n normalizer) normalize(val reflect.Value, depth int) (any, error) {
	if depth > n.maxDepth {
		return nil, errx.New(
			"[value]: maximum nesting depth exceeded",
			errx.WithCode(CodeMaxDepthExceeded),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"max_depth": n.maxDepth}),
		)
	}

	if !val.IsValid() {
		return nil, nil
	}

	// Dereference pointer and interface wrappers
	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil, nil
		}
		if val.Type() == orderedMapType {
			return n.orderedMap(val, depth)
		}
		val = val.Elem()
	}

	switch val.Type() {
	case jsonNumberType:
		return val.Interface(), nil
	case tupleType:
		return n.sequence(val, depth, func(e []any) any { return Tuple(e) })
	case setType:
		return n.sequence(val, depth, func(e []any) any { return Set(e) })
	}

	if marshaled, ok, err := n.marshaled(val); ok || err != nil {
		return marshaled, err
	}

	//nolint:exhaustive // Default case handles remaining kinds
	switch val.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return scalar(val), nil
	case reflect.Slice:
		if val.Type().Elem().Kind() == reflect.Uint8 {
			return string(val.Bytes()), nil
		}
		if val.IsNil() && val.Type() == reflect.TypeFor[[]any]() {
			return []any(nil), nil
		}
		return n.sequence(val, depth, func(e []any) any { return e })
	case reflect.Array:
		return n.sequence(val, depth, func(e []any) any { return Tuple(e) })
	case reflect.Map:
		return n.mapping(val, depth)
	case reflect.Struct:
		return n.structure(val, depth)
	default:
		if val.CanInterface() {
			return val.Interface(), nil
		}
		return nil, nil
	}
}

// scalar keeps predeclared types as-is and converts named types to their base kind.
func scalar(val reflect.Value) any {
	if val.Type().PkgPath() == "" && val.CanInterface() {
		return val.Interface()
	}

	//nolint:exhaustive // only scalar kinds reach here
	switch val.Kind() {
	case reflect.Bool:
		return val.Bool()
	case reflect.String:
		return val.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return val.Uint()
	default:
		return val.Float()
	}
}

func (n normalizer) marshaled(val reflect.Value) (any, bool, error) {
	if !val.CanInterface() {
		return nil, false, nil
	}

	switch {
	case val.Type().Implements(jsonMarshalerType):
		raw, err := val.Interface().(json.Marshaler).MarshalJSON()
		if err != nil {
			return nil, true, errx.Wrap(err)
		}
		decoded, err := DecodeJSON(raw)
		if err != nil {
			return nil, true, errx.Wrap(err)
		}
		return decoded, true, nil
	case val.Type().Implements(textMarshalerType):
		text, err := val.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, true, errx.Wrap(err)
		}
		return string(text), true, nil
	default:
		return nil, false, nil
	}
}

func (n normalizer) sequence(val reflect.Value, depth int, wrap func([]any) any) (any, error) {
	elems := make([]any, val.Len())
	for i := range val.Len() {
		e, err := n.normalize(val.Index(i), depth+1)
		if err != nil {
			return nil, err
		}
		elems[i] = e
	}
	return wrap(elems), nil
}

func (n normalizer) orderedMap(val reflect.Value, depth int) (any, error) {
	src, _ := val.Interface().(*orderedmap.OrderedMap[string, any])
	om := orderedmap.New[string, any]()
	for pair := src.Oldest(); pair != nil; pair = pair.Next() {
		v, err := n.normalize(reflect.ValueOf(pair.Value), depth+1)
		if err != nil {
			return nil, err
		}
		om.Set(pair.Key, v)
	}
	return om, nil
}

func (n normalizer) mapping(val reflect.Value, depth int) (any, error) {
	typ := val.Type()

	// map[K]struct{} is the Go spelling of a set
	if typ.Elem().Kind() == reflect.Struct && typ.Elem().NumField() == 0 {
		members := make([]any, 0, val.Len())
		for _, k := range val.MapKeys() {
			m, err := n.normalize(k, depth+1)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		slices.SortFunc(members, func(a, b any) int { return strings.Compare(Render(a), Render(b)) })
		return Set(members), nil
	}

	if typ.Key().Kind() == reflect.String {
		if val.IsNil() {
			return map[string]any(nil), nil
		}
		out := make(map[string]any, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			v, err := n.normalize(iter.Value(), depth+1)
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = v
		}
		return out, nil
	}

	out := make(map[any]any, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		k, err := n.normalize(iter.Key(), depth+1)
		if err != nil {
			return nil, err
		}
		v, err := n.normalize(iter.Value(), depth+1)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (n normalizer) structure(val reflect.Value, depth int) (any, error) {
	om := orderedmap.New[string, any]()
	typ := val.Type()

	for i := range val.NumField() {
		fieldType := typ.Field(i)
		if !fieldType.IsExported() {
			continue
		}

		name, skip := FieldName(fieldType)
		if skip {
			continue
		}

		v, err := n.normalize(val.Field(i), depth+1)
		if err != nil {
			return nil, err
		}
		om.Set(name, v)
	}

	return om, nil
}

// FieldName extracts the key used for a struct field with priority:
// 1. json tag (if present and not "-")
// 2. yaml tag (if present and not "-")
// 3. struct field name
// Returns (fieldName, shouldSkip) where shouldSkip=true means field should be omitted.
func FieldName(field reflect.StructField) (string, bool) {
	for _, tagName := range []string{"json", "yaml"} {
		tag, ok := field.Tag.Lookup(tagName)
		if !ok {
			continue
		}
		if tag == "-" {
			return "", true
		}
		// Extract name before comma (e.g., "fieldname,omitempty" -> "fieldname")
		if idx := strings.Index(tag, ","); idx != -1 {
			tag = tag[:idx]
		}
		if tag != "" {
			return tag, false
		}
	}

	return field.Name, false
}
