package fieldpath_test

import (
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/datamask/fieldpath"
)

func lit(key string) fieldpath.Segment {
	return fieldpath.Segment{Kind: fieldpath.Literal, Key: key}
}

func idx(i int) fieldpath.Segment {
	return fieldpath.Segment{Kind: fieldpath.Index, Index: i}
}

//nolint:gochecknoglobals // test fixtures
var (
	rec  = fieldpath.Segment{Kind: fieldpath.Recursive}
	wild = fieldpath.Segment{Kind: fieldpath.Wildcard}
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected fieldpath.Path
	}{
		{
			name:     "dotted literals",
			path:     "user.contact.details.zip",
			expected: fieldpath.Path{lit("user"), lit("contact"), lit("details"), lit("zip")},
		},
		{
			name:     "single key",
			path:     "name",
			expected: fieldpath.Path{lit("name")},
		},
		{
			name:     "quoted scalar keys",
			path:     "a.'1'.None",
			expected: fieldpath.Path{lit("a"), lit("1"), lit("None")},
		},
		{
			name:     "recursive descent",
			path:     "a..'4'",
			expected: fieldpath.Path{lit("a"), rec, lit("4")},
		},
		{
			name:     "recursive descent from root",
			path:     "$..name",
			expected: fieldpath.Path{rec, lit("name")},
		},
		{
			name:     "leading recursive descent",
			path:     "..name",
			expected: fieldpath.Path{rec, lit("name")},
		},
		{
			name:     "root marker",
			path:     "$.a.b",
			expected: fieldpath.Path{lit("a"), lit("b")},
		},
		{
			name:     "quoted key with dots",
			path:     "a.'x.y'.b",
			expected: fieldpath.Path{lit("a"), lit("x.y"), lit("b")},
		},
		{
			name:     "escaped quote and backslash",
			path:     `'it\'s'.'a\\b'`,
			expected: fieldpath.Path{lit("it's"), lit(`a\b`)},
		},
		{
			name:     "empty quoted key",
			path:     "a.''",
			expected: fieldpath.Path{lit("a"), lit("")},
		},
		{
			name:     "index",
			path:     "$.items[0].id",
			expected: fieldpath.Path{lit("items"), idx(0), lit("id")},
		},
		{
			name:     "negative index",
			path:     "items[-1]",
			expected: fieldpath.Path{lit("items"), idx(-1)},
		},
		{
			name:     "root index",
			path:     "$[2]",
			expected: fieldpath.Path{idx(2)},
		},
		{
			name:     "dotted wildcard",
			path:     "a.*.b",
			expected: fieldpath.Path{lit("a"), wild, lit("b")},
		},
		{
			name:     "bracket wildcard",
			path:     "a[*].b",
			expected: fieldpath.Path{lit("a"), wild, lit("b")},
		},
		{
			name:     "recursive wildcard",
			path:     "a..*",
			expected: fieldpath.Path{lit("a"), rec, wild},
		},
		{
			name:     "bracketed quoted key",
			path:     "a['x.y'][0]",
			expected: fieldpath.Path{lit("a"), lit("x.y"), idx(0)},
		},
		{
			name:     "recursive bracketed key",
			path:     "a..['b']",
			expected: fieldpath.Path{lit("a"), rec, lit("b")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := fieldpath.Parse(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "empty", path: ""},
		{name: "blank", path: "   "},
		{name: "trailing dot", path: "a."},
		{name: "trailing recursive descent", path: "a.."},
		{name: "malformed recursive descent", path: "user.ssn..."},
		{name: "empty segment", path: "a...b"},
		{name: "leading dot", path: ".a"},
		{name: "lone root marker", path: "$"},
		{name: "root marker without separator", path: "$a"},
		{name: "unterminated quote", path: "a.'b"},
		{name: "unterminated escape", path: `a.'b\`},
		{name: "text after quoted key", path: "a.'b'c"},
		{name: "unterminated bracket", path: "a[0"},
		{name: "empty bracket", path: "a["},
		{name: "non-integer index", path: "a[x]"},
		{name: "index after recursive descent", path: "a..[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := fieldpath.Parse(tt.path)
			require.Error(t, err)
			assert.Nil(t, path)
			assert.True(t, errx.IsCodeIn(err, fieldpath.CodeInvalidPath))
			assert.Equal(t, errx.T_Validation, errx.GetType(err))
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { fieldpath.MustParse("a..") })
	assert.NotPanics(t, func() { fieldpath.MustParse("a.b") })
}

func TestPath_StringRoundTrip(t *testing.T) {
	paths := []string{
		"a.b.c",
		"a..4",
		"..name",
		"'x.y'.b",
		"items[-1].id",
		"$[0]",
		"a.*",
		"a..*",
		`'it\'s'`,
		"''",
		"'$ref'",
		"'*'",
	}

	for _, raw := range paths {
		t.Run(raw, func(t *testing.T) {
			path, err := fieldpath.Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, path.String())

			again, err := fieldpath.Parse(path.String())
			require.NoError(t, err)
			assert.Equal(t, path, again)
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{key: "name", expected: "name"},
		{key: "1", expected: "1"},
		{key: "a.b", expected: "'a.b'"},
		{key: "a[0]", expected: "'a[0]'"},
		{key: "", expected: "''"},
		{key: "*", expected: "'*'"},
		{key: "$id", expected: "'$id'"},
		{key: "'x", expected: `'\'x'`},
		{key: `a.\`, expected: `'a.\\'`},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, fieldpath.Quote(tt.key))
		})
	}
}

func TestJoin(t *testing.T) {
	joined := fieldpath.Join("db", "dsn.primary", "password")
	assert.Equal(t, "db.'dsn.primary'.password", joined)

	path, err := fieldpath.Parse(joined)
	require.NoError(t, err)
	assert.Equal(t, fieldpath.Path{lit("db"), lit("dsn.primary"), lit("password")}, path)
}
