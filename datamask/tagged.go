package datamask

import (
	"reflect"
	"strings"

	"github.com/rise-and-shine/datamask/fieldpath"
	"github.com/rise-and-shine/datamask/value"
)

const tagName = "mask"

// TaggedFields returns the paths of all struct fields tagged `mask:"true"` in the
// type of v, in field order. Field names follow the same json > yaml > field name
// priority as the struct normalization done by Erase, so the result can be passed
// to WithFields. Slices and maps of structs are addressed with a wildcard.
func TaggedFields(v any) []string {
	if v == nil {
		return nil
	}

	var paths []string
	collectTagged(reflect.TypeOf(v), nil, map[reflect.Type]bool{}, &paths)
	return paths
}

func collectTagged(typ reflect.Type, prefix []string, visiting map[reflect.Type]bool, paths *[]string) {
	typ = structType(typ)
	if typ == nil || visiting[typ] {
		return
	}
	visiting[typ] = true
	defer delete(visiting, typ)

	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		name, skip := value.FieldName(field)
		if skip {
			continue
		}

		path := append(prefix[:len(prefix):len(prefix)], fieldpath.Quote(name))

		if shouldMask(field) {
			*paths = append(*paths, strings.Join(path, "."))
			continue
		}

		ft := deref(field.Type)
		switch ft.Kind() { //nolint:exhaustive // only containers of structs are expanded
		case reflect.Struct:
			collectTagged(ft, path, visiting, paths)
		case reflect.Slice, reflect.Array, reflect.Map:
			collectTagged(ft.Elem(), append(path, "*"), visiting, paths)
		}
	}
}

// structType returns the struct type behind typ, or nil.
func structType(typ reflect.Type) reflect.Type {
	if typ == nil {
		return nil
	}
	typ = deref(typ)
	if typ.Kind() != reflect.Struct {
		return nil
	}
	return typ
}

func deref(typ reflect.Type) reflect.Type {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}

func shouldMask(field reflect.StructField) bool {
	tag := field.Tag.Get(tagName)
	return strings.EqualFold(tag, "true")
}
