package fieldpath_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/rise-and-shine/datamask/fieldpath"
	"github.com/rise-and-shine/datamask/value"
)

func paths(locs []fieldpath.Location) []string {
	return lo.Map(locs, func(l fieldpath.Location, _ int) string { return l.Path })
}

func sampleTree() map[string]any {
	return map[string]any{
		"a": map[string]any{
			"1": map[string]any{"None": "hello", "four": "world"},
			"b": map[string]any{
				"3": map[string]any{"4": "goodbye", "e": "world"},
			},
		},
	}
}

func TestSelect_Literal(t *testing.T) {
	data := sampleTree()

	locs := fieldpath.Select(data, fieldpath.MustParse("a.'1'.None"))
	require.Len(t, locs, 1)
	assert.Equal(t, "$.a.1.None", locs[0].Path)
	assert.Equal(t, "hello", locs[0].Value)

	locs[0].Set("*****")
	assert.Equal(t, "*****", data["a"].(map[string]any)["1"].(map[string]any)["None"])
}

func TestSelect_RecursiveDescent(t *testing.T) {
	data := sampleTree()

	locs := fieldpath.Select(data, fieldpath.MustParse("a..'4'"))
	require.Len(t, locs, 1)
	assert.Equal(t, "$.a.b.3.4", locs[0].Path)
	assert.Equal(t, "goodbye", locs[0].Value)
}

func TestSelect_RecursiveDescentEveryMatch(t *testing.T) {
	data := map[string]any{
		"x": map[string]any{
			"id": 1,
			"y":  map[string]any{"id": 2},
		},
		"z": []any{
			map[string]any{"id": 3},
			"id",
		},
	}

	locs := fieldpath.Select(data, fieldpath.MustParse("$..id"))
	assert.Equal(t, []string{"$.x.id", "$.x.y.id", "$.z[0].id"}, paths(locs))
	assert.Equal(t, []any{1, 2, 3}, lo.Map(locs, func(l fieldpath.Location, _ int) any { return l.Value }))

	for _, l := range locs {
		l.Set("masked")
	}
	assert.Equal(t, "masked", data["x"].(map[string]any)["id"])
	assert.Equal(t, "masked", data["x"].(map[string]any)["y"].(map[string]any)["id"])
	assert.Equal(t, "masked", data["z"].([]any)[0].(map[string]any)["id"])
	assert.Equal(t, "id", data["z"].([]any)[1])
}

func TestSelect_RecursiveDescentIncludesStartNode(t *testing.T) {
	data := map[string]any{
		"a": map[string]any{"k": "top", "b": map[string]any{"k": "nested"}},
	}

	locs := fieldpath.Select(data, fieldpath.MustParse("a..k"))
	assert.Equal(t, []string{"$.a.k", "$.a.b.k"}, paths(locs))
}

func TestSelect_DuplicateRoutesCollapse(t *testing.T) {
	data := map[string]any{
		"a": map[string]any{
			"a": map[string]any{"b": 1},
		},
	}

	locs := fieldpath.Select(data, fieldpath.MustParse("$..a..b"))
	assert.Equal(t, []string{"$.a.a.b"}, paths(locs))
}

func TestSelect_Index(t *testing.T) {
	data := map[string]any{"items": []any{"a", "b", "c"}}

	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{name: "first", path: "items[0]", expected: []string{"$.items[0]"}},
		{name: "last", path: "items[-1]", expected: []string{"$.items[2]"}},
		{name: "out of range", path: "items[3]", expected: []string{}},
		{name: "negative out of range", path: "items[-4]", expected: []string{}},
		{name: "index on mapping", path: "[0]", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locs := fieldpath.Select(data, fieldpath.MustParse(tt.path))
			assert.Equal(t, tt.expected, paths(locs))
		})
	}
}

func TestSelect_IndexWritesThrough(t *testing.T) {
	items := value.Tuple{"a", "b"}
	data := map[string]any{"items": items}

	locs := fieldpath.Select(data, fieldpath.MustParse("items[1]"))
	require.Len(t, locs, 1)
	locs[0].Set("x")

	assert.Equal(t, value.Tuple{"a", "x"}, data["items"])
}

func TestSelect_Wildcard(t *testing.T) {
	data := map[string]any{
		"users": []any{
			map[string]any{"name": "ann", "ssn": "1"},
			map[string]any{"name": "bob", "ssn": "2"},
		},
		"meta": map[string]any{"y": 1, "x": 2},
	}

	locs := fieldpath.Select(data, fieldpath.MustParse("users[*].ssn"))
	assert.Equal(t, []string{"$.users[0].ssn", "$.users[1].ssn"}, paths(locs))

	locs = fieldpath.Select(data, fieldpath.MustParse("meta.*"))
	assert.Equal(t, []string{"$.meta.x", "$.meta.y"}, paths(locs))
}

func TestSelect_OrderedMapKeepsInsertionOrder(t *testing.T) {
	om := orderedmap.New[string, any]()
	om.Set("b", 1)
	om.Set("a", 2)

	locs := fieldpath.Select(om, fieldpath.MustParse("*"))
	assert.Equal(t, []string{"$.b", "$.a"}, paths(locs))

	locs[1].Set("x")
	v, _ := om.Get("a")
	assert.Equal(t, "x", v)
}

func TestSelect_NonStringKeys(t *testing.T) {
	data := map[any]any{1: "one", true: "yes"}

	locs := fieldpath.Select(data, fieldpath.MustParse("'1'"))
	require.Len(t, locs, 1)
	assert.Equal(t, "one", locs[0].Value)

	locs[0].Set("x")
	assert.Equal(t, "x", data[1])
	assert.NotContains(t, data, "1")
}

func TestSelect_KeywordKeys(t *testing.T) {
	tests := []struct {
		raw  string
		key  any
		want string
	}{
		{raw: "None", key: nil, want: "hello"},
		{raw: "'None'", key: nil, want: "hello"},
		{raw: "'True'", key: true, want: "yes"},
		{raw: "False", key: false, want: "no"},
		{raw: "'true'", key: true, want: "yes"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			data := map[any]any{nil: "hello", true: "yes", false: "no", 1: "one"}

			locs := fieldpath.Select(data, fieldpath.MustParse(tt.raw))
			require.Len(t, locs, 1)
			assert.Equal(t, tt.want, locs[0].Value)

			locs[0].Set("*****")
			assert.Equal(t, "*****", data[tt.key])
			assert.Len(t, data, 4)
		})
	}
}

func TestSelect_NoMatch(t *testing.T) {
	data := sampleTree()

	tests := []string{
		"missing",
		"a.missing",
		"a.'1'.None.deeper",
		"a..missing",
		"a.'1'[0]",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			assert.Empty(t, fieldpath.Select(data, fieldpath.MustParse(raw)))
		})
	}

	assert.Empty(t, fieldpath.Select("scalar", fieldpath.MustParse("a")))
	assert.Empty(t, fieldpath.Select(nil, fieldpath.MustParse("$..a")))
}

func TestSelect_LiteralDoesNotMatchSequences(t *testing.T) {
	data := map[string]any{"items": []any{"a", "b"}}
	assert.Empty(t, fieldpath.Select(data, fieldpath.MustParse("items.0")))
}
