package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotconf/confiture/tree"
)

func mustParse(t *testing.T, input string) *tree.Section {
	t.Helper()
	section, err := Parse(input, Options{InputName: "test"})
	require.NoError(t, err)
	return section
}

func TestCommentAndBoolean(t *testing.T) {
	top := mustParse(t, "daemon = yes  # comment\n# comment\n")
	v, ok := top.Get("daemon")
	require.True(t, ok)
	require.True(t, v.Payload.Bool())
}

func TestListNormalForms(t *testing.T) {
	inputs := []string{
		"x = 1,2,3\n",
		"x = 1,2,3,\n",
		"x = 1,\n2,\n3\n",
		"x = 1,\n2,\n3,\n",
	}
	for _, input := range inputs {
		top := mustParse(t, input)
		v, ok := top.Get("x")
		require.True(t, ok)
		require.True(t, v.Payload.IsList())
		items := v.Payload.Items()
		require.Len(t, items, 3)
		require.Equal(t, int64(1), items[0].Int())
		require.Equal(t, int64(2), items[1].Int())
		require.Equal(t, int64(3), items[2].Int())
	}

	top := mustParse(t, "x = 1,\n")
	v, _ := top.Get("x")
	require.True(t, v.Payload.IsList())
	require.Len(t, v.Payload.Items(), 1)
}

func TestSectionArgs(t *testing.T) {
	top := mustParse(t, "s 'a' {}\n")
	subs := top.Subsections("s")
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].Args)
	require.Equal(t, []string{"a"}, rawStrings(subs[0].Args.Payload))

	top2 := mustParse(t, "s 'a','b' {}\n")
	subs2 := top2.Subsections("s")
	require.Equal(t, []string{"a", "b"}, rawStrings(subs2[0].Args.Payload))
}

func rawStrings(p tree.Payload) []string {
	items := p.Items()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Str()
	}
	return out
}

func TestUnitSemantics(t *testing.T) {
	top := mustParse(t, "x = 4 Ki\n")
	v, _ := top.Get("x")
	require.Equal(t, int64(4096), v.Payload.Int())

	top2 := mustParse(t, "x = 1.5 M\n")
	v2, _ := top2.Get("x")
	require.Equal(t, 1500000.0, v2.Payload.Float())
}

func TestNewlineMissingGuard(t *testing.T) {
	_, err := Parse("a = 1 b = 2", Options{InputName: "test"})
	require.Error(t, err)
	pe, ok := err.(*ParsingError)
	require.True(t, ok)
	require.Contains(t, pe.Error(), "newline missing")
	require.Contains(t, pe.Error(), `"b"`)
}

func TestUnterminatedSection(t *testing.T) {
	_, err := Parse("section {\n", Options{InputName: "test"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Unexpected end of file")
}

func TestIncludeFlattening(t *testing.T) {
	included := []string{
		"a { k = 1 }\nb { k = 2 }\n",
		"a { k = 3 }\n",
	}
	opener := func(pattern string) ([]*tree.Section, error) {
		var out []*tree.Section
		for _, src := range included {
			section, err := Parse(src, Options{InputName: pattern})
			require.NoError(t, err)
			out = append(out, section)
		}
		return out, nil
	}
	top, err := Parse(`include "parts/*.conf"`+"\n", Options{InputName: "test", Opener: opener})
	require.NoError(t, err)
	require.Len(t, top.Subsections("a"), 2)
	require.Len(t, top.Subsections("b"), 1)
}

func TestIllegalCharacterPropagates(t *testing.T) {
	_, err := Parse("x = $\n", Options{InputName: "test"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Illegal character")
}

func TestSectionNestingAndPosition(t *testing.T) {
	top := mustParse(t, "outer {\n  inner {\n    k = 1\n  }\n}\n")
	outer := top.Subsections("outer")[0]
	inner := outer.Subsections("inner")[0]
	v, ok := inner.Get("k")
	require.True(t, ok)
	require.Equal(t, int64(1), v.Payload.Int())
	require.Equal(t, 3, v.Pos.Line())
}
