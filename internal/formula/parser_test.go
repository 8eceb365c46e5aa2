package formula

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fieldcalc/internal/ir"
)

func TestParse_Precedence(t *testing.T) {
	// Multiplication binds tighter than addition.
	root := MustParse("1 + 2 * 3")
	assert.Equal(t, "(1.0 + (2.0 * 3.0))", root.String())

	// Parentheses override.
	root = MustParse("(1 + 2) * 3")
	assert.Equal(t, "((1.0 + 2.0) * 3.0)", root.String())

	// Comparison binds looser than arithmetic, logic looser still.
	root = MustParse("a + 1 > b and c")
	assert.Equal(t, "(((a + 1.0) > b) and c)", root.String())

	// or is the loosest level.
	root = MustParse("a and b or c")
	assert.Equal(t, "((a and b) or c)", root.String())
}

func TestParse_PowerRightAssociative(t *testing.T) {
	root := MustParse("2 ** 3 ** 2")
	assert.Equal(t, "(2.0 ** (3.0 ** 2.0))", root.String())
}

func TestParse_LeftAssociative(t *testing.T) {
	assert.Equal(t, "((1.0 - 2.0) - 3.0)", MustParse("1 - 2 - 3").String())
	assert.Equal(t, "((8.0 / 4.0) / 2.0)", MustParse("8 / 4 / 2").String())
	assert.Equal(t, "((a or b) or c)", MustParse("a or b or c").String())
}

func TestParse_UnaryPrefix(t *testing.T) {
	assert.Equal(t, "(-x)", MustParse("-x").String())
	assert.Equal(t, "(-(-x))", MustParse("--x").String())
	assert.Equal(t, "(not (not a))", MustParse("not not a").String())
	// Unary minus binds tighter than multiplication's operands combine.
	assert.Equal(t, "(2.0 * (-3.0))", MustParse("2 * -3").String())
	// But ** binds tighter than unary: -2 ** 2 is -(2 ** 2).
	assert.Equal(t, "(-(2.0 ** 2.0))", MustParse("-2 ** 2").String())
}

func TestParse_Literals(t *testing.T) {
	lit := func(text string) ir.Value {
		root, err := Parse(text)
		require.NoError(t, err)
		l, ok := root.(*Literal)
		require.True(t, ok, "expected literal for %q", text)
		return l.Value
	}
	assert.Equal(t, ir.Number(42), lit("42"))
	assert.Equal(t, ir.Number(3.25), lit("3.25"))
	assert.Equal(t, ir.Text("hi"), lit(`"hi"`))
	assert.Equal(t, ir.Bool(true), lit("true"))
	assert.Equal(t, ir.Bool(false), lit("false"))
	assert.Equal(t, ir.Null{}, lit("null"))
}

func TestParse_FieldReference(t *testing.T) {
	root := MustParse("depth_from")
	ref, ok := root.(*FieldRef)
	require.True(t, ok)
	assert.Equal(t, "depth_from", ref.Name)
}

func TestParse_FunctionCall(t *testing.T) {
	root := MustParse("min(a, b + 1, max(c, 2))")
	call, ok := root.(*Call)
	require.True(t, ok)
	assert.Equal(t, "min", call.Name)
	require.Len(t, call.Args, 3)
	assert.Equal(t, "min(a, (b + 1.0), max(c, 2.0))", call.String())

	// Empty argument list is allowed.
	root = MustParse("now()")
	call, ok = root.(*Call)
	require.True(t, ok)
	assert.Empty(t, call.Args)
}

func TestParse_IdentifierVsCall(t *testing.T) {
	// An identifier is a call only when immediately followed by "(".
	root := MustParse("abs + 1")
	bin, ok := root.(*Binary)
	require.True(t, ok)
	_, ok = bin.Left.(*FieldRef)
	assert.True(t, ok, "abs without parens is a field reference")
}

func TestParse_EmptyFormula(t *testing.T) {
	_, err := Parse("")
	require.Error(t, err)
	assert.True(t, IsSyntaxError(err))
	assert.Contains(t, err.Error(), "empty formula")

	_, err = Parse("   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty formula")
}

func TestParse_TrailingTokens(t *testing.T) {
	_, err := Parse("1 2 3")
	require.Error(t, err)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Position)
	assert.Contains(t, se.Message, "unexpected token")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		formula string
	}{
		{"dangling operator", "1 +"},
		{"missing close paren", "(1 + 2"},
		{"missing call close", "min(1, 2"},
		{"bare comma", ","},
		{"operator only", "*"},
		{"dangling and", "a and"},
		{"empty parens", "()"},
		{"comma without argument", "min(,)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(tt.formula)
			require.Error(t, err, "formula %q", tt.formula)
			assert.Nil(t, root, "no partial tree on error")
			assert.True(t, IsSyntaxError(err))
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	// Parsing the same text twice yields structurally identical ASTs.
	const text = `min(depth_from, depth_to) * 2 ** n + (a or not b) - "x"`
	first := MustParse(text)
	second := MustParse(text)
	assert.True(t, reflect.DeepEqual(first, second))
}

func TestParse_ComparisonOfComparison(t *testing.T) {
	// Comparisons parse left-associatively and do not chain
	// semantically; the type error surfaces at evaluation time.
	root := MustParse("1 < 2 < 3")
	assert.Equal(t, "((1.0 < 2.0) < 3.0)", root.String())
}
