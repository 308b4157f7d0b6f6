package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotconf/confiture/parser"
	"github.com/dotconf/confiture/schema/types"
	"github.com/dotconf/confiture/tree"
)

func parseTop(t *testing.T, input string) *tree.Section {
	t.Helper()
	top, err := parser.Parse(input, parser.Options{InputName: "test"})
	require.NoError(t, err)
	return top
}

// E1
func TestEndToEndDaemonPort(t *testing.T) {
	top := parseTop(t, "daemon = yes\nport = 8080\n")
	schema := SectionSchema{Fields: []Field{
		{Name: "daemon", Container: Value{Type: types.Boolean{}}},
		{Name: "port", Container: Value{Type: types.Integer{}}},
	}}
	out, err := schema.Validate(context.Background(), top, nil)
	require.NoError(t, err)
	m := out.Map()
	require.Equal(t, true, m["daemon"])
	require.Equal(t, int64(8080), m["port"])
}

// E2
func TestEndToEndUnitSize(t *testing.T) {
	top := parseTop(t, "size = 2 Gi\n")
	schema := SectionSchema{Fields: []Field{
		{Name: "size", Container: Value{Type: types.Integer{}}},
	}}
	out, err := schema.Validate(context.Background(), top, nil)
	require.NoError(t, err)
	require.Equal(t, int64(2147483648), out.Map()["size"])
}

// E3
func TestEndToEndRepeatUniqueSections(t *testing.T) {
	sSchema := SectionSchema{
		Meta: Meta{
			Args:   Value{Type: types.String{}},
			Unique: true,
			Repeat: Many,
		},
		Fields: []Field{
			{Name: "k", Container: Value{Type: types.Integer{}}},
		},
	}
	top := SectionSchema{Fields: []Field{{Name: "s", Section: &sSchema}}}

	ok := parseTop(t, "s 'x' { k = 1 }\ns 'y' { k = 2 }\n")
	_, err := top.Validate(context.Background(), ok, nil)
	require.NoError(t, err)

	dup := parseTop(t, "s 'x' { k = 1 }\ns 'x' { k = 2 }\n")
	_, err = top.Validate(context.Background(), dup, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "section must be unique")
}

// E4
func TestEndToEndAllowUnknown(t *testing.T) {
	pluginSchema := SectionSchema{
		Meta:   Meta{Args: Value{Type: types.String{}}, AllowUnknown: true, Repeat: Once},
		Fields: []Field{{Name: "common", Container: Value{Type: types.Integer{}}}},
	}
	top := SectionSchema{Fields: []Field{{Name: "plugin", Section: &pluginSchema}}}

	ok := parseTop(t, "plugin 'a' { common = 1 }\n")
	out, err := top.Validate(context.Background(), ok, nil)
	require.NoError(t, err)
	plugins := out.Subsections("plugin")
	require.Len(t, plugins, 1)
	_, ok2 := plugins[0].Get("extra")
	require.False(t, ok2)

	extra := parseTop(t, "plugin 'a' { common = 1\nextra = 1 }\n")
	_, err = top.Validate(context.Background(), extra, nil)
	require.NoError(t, err)
}

// E5
func TestEndToEndListUnderScalarValueFails(t *testing.T) {
	top := parseTop(t, "x = 1,\n2,\n3\n")
	m := top.Map()
	require.Equal(t, []any{int64(1), int64(2), int64(3)}, m["x"])

	schema := SectionSchema{Fields: []Field{{Name: "x", Container: Value{Type: types.Integer{}}}}}
	_, err := schema.Validate(context.Background(), top, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "[1,2,3] is a list")
}

// E6
func TestEndToEndMissingRequiredField(t *testing.T) {
	top := parseTop(t, "")
	schema := SectionSchema{Fields: []Field{{Name: "n", Container: Value{Type: types.Integer{}}}}}
	_, err := schema.Validate(context.Background(), top, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "key n")
	require.Contains(t, err.Error(), "required")
}

func TestSectionArgsRejectedWhenNoneDeclared(t *testing.T) {
	top := parseTop(t, "s 'a' {}\n")
	sSchema := SectionSchema{}
	schema := SectionSchema{Fields: []Field{{Name: "s", Section: &sSchema}}}
	_, err := schema.Validate(context.Background(), top, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not take any argument")
}

func TestSectionRepeatBounds(t *testing.T) {
	sSchema := SectionSchema{Meta: Meta{Repeat: Repeat{Min: 2, Max: intPtr(3)}}}
	schema := SectionSchema{Fields: []Field{{Name: "s", Section: &sSchema}}}

	_, err := schema.Validate(context.Background(), parseTop(t, ""), nil)
	require.Error(t, err)

	_, err = schema.Validate(context.Background(), parseTop(t, "s {}\n"), nil)
	require.Error(t, err)

	_, err = schema.Validate(context.Background(), parseTop(t, "s {}\ns {}\n"), nil)
	require.NoError(t, err)

	_, err = schema.Validate(context.Background(), parseTop(t, "s {}\ns {}\ns {}\n"), nil)
	require.NoError(t, err)

	_, err = schema.Validate(context.Background(), parseTop(t, "s {}\ns {}\ns {}\ns {}\n"), nil)
	require.Error(t, err)
}

func TestUniqueArgsBothNilCompareEqual(t *testing.T) {
	sSchema := SectionSchema{Meta: Meta{Unique: true, Repeat: Many}}
	schema := SectionSchema{Fields: []Field{{Name: "s", Section: &sSchema}}}

	_, err := schema.Validate(context.Background(), parseTop(t, "s {}\ns {}\n"), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "section must be unique")
}

func TestUnknownKeyFailsByDefault(t *testing.T) {
	top := parseTop(t, "extra = 1\n")
	schema := SectionSchema{}
	_, err := schema.Validate(context.Background(), top, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown key extra")
}

func TestIdempotenceOfValidation(t *testing.T) {
	top := parseTop(t, "daemon = yes\nport = 8080\n")
	schema := SectionSchema{Fields: []Field{
		{Name: "daemon", Container: Value{Type: types.Boolean{}}},
		{Name: "port", Container: Value{Type: types.Integer{}}},
	}}
	once, err := schema.Validate(context.Background(), top, nil)
	require.NoError(t, err)
	twice, err := schema.Validate(context.Background(), once, nil)
	require.NoError(t, err)
	require.Equal(t, once.Map(), twice.Map())
}

func TestDeriveOverridesFieldsByName(t *testing.T) {
	base := SectionSchema{Fields: []Field{
		{Name: "port", Container: Value{Type: types.Integer{}, Default: 80}},
		{Name: "host", Container: Value{Type: types.String{}, Default: "localhost"}},
	}}
	derived := Derive(base, Meta{}, Field{Name: "port", Container: Value{Type: types.Integer{}, Default: 443}})
	require.Len(t, derived.Fields, 2)

	out, err := derived.Validate(context.Background(), parseTop(t, ""), nil)
	require.NoError(t, err)
	require.Equal(t, int64(443), out.Map()["port"])
	require.Equal(t, "localhost", out.Map()["host"])
}

func TestOverrideMapSuppliesField(t *testing.T) {
	schema := SectionSchema{Fields: []Field{{Name: "port", Container: Value{Type: types.Integer{}}}}}
	out, err := schema.Validate(context.Background(), parseTop(t, ""), OverrideMap{"port": "9090"})
	require.NoError(t, err)
	require.Equal(t, int64(9090), out.Map()["port"])
}

func TestToDictAlwaysListsSubsections(t *testing.T) {
	top := parseTop(t, "plugin 'a' {}\n")
	m := top.Map()
	plugins, ok := m["plugin"].([]any)
	require.True(t, ok)
	require.Len(t, plugins, 1)
}
