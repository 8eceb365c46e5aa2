package eval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fieldcalc/internal/formula"
	"github.com/roach88/fieldcalc/internal/ir"
)

func TestBuiltins_Numeric(t *testing.T) {
	assert.Equal(t, ir.Number(5), mustEval(t, "abs(-5)", nil))
	assert.Equal(t, ir.Number(1), mustEval(t, "min(a, b, c)", Snapshot{
		"a": ir.Number(3), "b": ir.Number(1), "c": ir.Number(2),
	}))
	assert.Equal(t, ir.Number(3), mustEval(t, "max(3, 1, 2)", nil))
	assert.Equal(t, ir.Number(3), mustEval(t, "round(2.6)", nil))
	assert.Equal(t, ir.Number(2), mustEval(t, "floor(2.9)", nil))
	assert.Equal(t, ir.Number(3), mustEval(t, "ceil(2.1)", nil))
}

func TestBuiltins_Text(t *testing.T) {
	assert.Equal(t, ir.Number(5), mustEval(t, `len("hello")`, nil))
	assert.Equal(t, ir.Text("AB"), mustEval(t, `upper("ab")`, nil))
	assert.Equal(t, ir.Text("ab"), mustEval(t, `lower("AB")`, nil))
	assert.Equal(t, ir.Text("x"), mustEval(t, `trim("  x  ")`, nil))
	// concat renders every argument, including numbers and null.
	assert.Equal(t, ir.Text("BH-3.0"), mustEval(t, `concat("BH-", 3, null)`, nil))
}

func TestBuiltins_IfAndCoalesce(t *testing.T) {
	assert.Equal(t, ir.Text("deep"), mustEval(t, `if(depth > 100, "deep", "shallow")`, Snapshot{
		"depth": ir.Number(150),
	}))
	assert.Equal(t, ir.Text("shallow"), mustEval(t, `if(0, "deep", "shallow")`, nil))

	assert.Equal(t, ir.Number(7), mustEval(t, "coalesce(null, 7, 9)", nil))
	assert.Equal(t, ir.Null{}, mustEval(t, "coalesce(null, null)", nil))
	// Falsy non-null values are still values.
	assert.Equal(t, ir.Number(0), mustEval(t, "coalesce(0, 7)", nil))
}

func TestBuiltins_Clock(t *testing.T) {
	instant := time.Date(2026, 8, 24, 12, 30, 0, 0, time.UTC)
	e := New(DefaultRegistry(FixedClock{Instant: instant}))

	v, err := e.Evaluate(formula.MustParse("now()"), nil)
	require.NoError(t, err)
	assert.Equal(t, ir.Text("2026-08-24T12:30:00Z"), v)

	v, err = e.Evaluate(formula.MustParse("today()"), nil)
	require.NoError(t, err)
	assert.Equal(t, ir.Text("2026-08-24"), v)
}

func TestBuiltins_ArgumentValidation(t *testing.T) {
	tests := []struct {
		name    string
		formula string
	}{
		{"abs arity", "abs(1, 2)"},
		{"abs type", `abs("x")`},
		{"min empty", "min()"},
		{"min type", `min(1, "2")`},
		{"len type", "len(42)"},
		{"if arity", "if(1, 2)"},
		{"coalesce empty", "coalesce()"},
		{"now arity", "now(1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evalText(t, tt.formula, nil)
			require.Error(t, err)
			var ee *Error
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, ErrCodeFunctionArgument, ee.Code)
		})
	}
}

func TestRegistry_CallerExtension(t *testing.T) {
	// Callers can register functions without touching the evaluator.
	reg := DefaultRegistry(SystemClock{})
	reg.Register("double", func(args []ir.Value) (ir.Value, error) {
		if len(args) != 1 {
			return nil, NewFunctionArgumentError("double", "expected 1 argument, got %d", len(args))
		}
		n, ok := args[0].(ir.Number)
		if !ok {
			return nil, NewFunctionArgumentError("double", "expected a number, got %s", ir.KindOf(args[0]))
		}
		return ir.Number(2 * float64(n)), nil
	})

	v, err := New(reg).Evaluate(formula.MustParse("double(21)"), nil)
	require.NoError(t, err)
	assert.Equal(t, ir.Number(42), v)
}
