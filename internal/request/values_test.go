package request

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanpama/graphjoin/internal/schema"
)

func booksArgs(t *testing.T, source string, variables map[string]any) map[string]any {
	t.Helper()
	dr := mustCompile(t, source, variables)
	return dr.Query.Selections[0].Args
}

func TestBindArguments_Literals(t *testing.T) {
	args := booksArgs(t, `{ books(genre: "comedy", first: 3) { title } }`, nil)
	require.Equal(t, map[string]any{"genre": "comedy", "first": 3}, args)
}

func TestBindArguments_DeclaredDefault(t *testing.T) {
	args := booksArgs(t, `{ books { title } }`, nil)
	require.Equal(t, map[string]any{"first": 10}, args)
}

func TestBindArguments_Variables(t *testing.T) {
	args := booksArgs(t, `query($g: String) { books(genre: $g) { title } }`,
		map[string]any{"g": "adventure"})
	require.Equal(t, "adventure", args["genre"])
}

func TestBindArguments_VariableCoercion(t *testing.T) {
	// JSON numbers arrive as float64 and must coerce to the declared Int.
	args := booksArgs(t, `query($n: Int) { books(first: $n) { title } }`,
		map[string]any{"n": float64(5)})
	require.Equal(t, 5, args["first"])
}

func TestBindArguments_UnboundNullableVariableOmitted(t *testing.T) {
	args := booksArgs(t, `query($g: String) { books(genre: $g) { title } }`, nil)
	_, present := args["genre"]
	require.False(t, present)
}

func TestBindArguments_UndeclaredArgument(t *testing.T) {
	_, err := compile(t, `{ books(publisher: "x") { title } }`, nil)
	require.Error(t, err)
	require.True(t, IsKind(err, ErrArgument))
	require.Contains(t, err.Error(), `unknown argument "publisher"`)
}

func TestBindArguments_MissingRequired(t *testing.T) {
	_, err := compile(t, `{ book { title } }`, nil)
	require.Error(t, err)
	require.True(t, IsKind(err, ErrArgument))

	_, err = compile(t, `query($id: Int!) { book(id: $id) { title } }`, nil)
	require.True(t, IsKind(err, ErrArgument))
}

func TestBindArguments_TypeMismatch(t *testing.T) {
	_, err := compile(t, `query($b: Boolean) { books(first: $b) { title } }`,
		map[string]any{"b": true})
	require.Error(t, err)
	require.True(t, IsKind(err, ErrArgument))
}

func TestBindArguments_BoundOncePerMergedField(t *testing.T) {
	// Duplicate selections of the same key merge before binding; arguments
	// come from the first-seen occurrence.
	dr := mustCompile(t, `{ books(genre: "comedy") { title } books(genre: "comedy") { id } }`, nil)
	require.Len(t, dr.Query.Selections, 1)
	require.Equal(t, "comedy", dr.Query.Selections[0].Args["genre"])
}

func TestCoerceValue_Scalars(t *testing.T) {
	cases := []struct {
		name   string
		value  any
		target *schema.TypeRef
		want   any
	}{
		{"int from int64", int64(7), schema.NamedType("Int"), 7},
		{"float from int", 2, schema.NamedType("Float"), 2.0},
		{"string passthrough", "s", schema.NamedType("String"), "s"},
		{"bool passthrough", true, schema.NamedType("Boolean"), true},
		{"id from int", 42, schema.NamedType("ID"), "42"},
		{"custom scalar passthrough", map[string]any{"k": 1}, schema.NamedType("JSON"), map[string]any{"k": 1}},
		{"single value to list", "x", schema.ListType(schema.NamedType("String")), []any{"x"}},
		{"list elementwise", []any{1, 2}, schema.ListType(schema.NamedType("ID")), []any{"1", "2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := coerceValue(tc.value, tc.target)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestBindArguments_IntLiteralOverflow(t *testing.T) {
	_, err := compile(t, `{ books(first: 99999999999999999999) { title } }`, nil)
	require.Error(t, err)
	require.True(t, IsKind(err, ErrArgument))
	require.Contains(t, err.Error(), "Int cannot represent value 99999999999999999999")
}

func TestBindArguments_IntLiteralOverflowInList(t *testing.T) {
	_, err := compile(t, `{ books(first: [99999999999999999999]) { title } }`, nil)
	require.Error(t, err)
	require.True(t, IsKind(err, ErrArgument))
}

func TestCoerceValue_FractionalFloatToInt(t *testing.T) {
	_, err := coerceValue(3.7, schema.NamedType("Int"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "without loss")

	got, err := coerceValue(3.0, schema.NamedType("Int"))
	require.NoError(t, err)
	require.Equal(t, 3, got)

	// A float64 beyond the int range cannot round-trip either.
	_, err = coerceValue(1e19, schema.NamedType("Int"))
	require.Error(t, err)
}

func TestCoerceValue_Errors(t *testing.T) {
	_, err := coerceValue(nil, schema.NonNullType(schema.NamedType("Int")))
	require.Error(t, err)

	_, err = coerceValue("nope", schema.NamedType("Boolean"))
	require.Error(t, err)

	_, err = coerceValue([]any{"nope"}, schema.ListType(schema.NamedType("Boolean")))
	require.Error(t, err)
}
