package eval

import (
	"math"
	"strings"
	"time"

	"github.com/roach88/fieldcalc/internal/ir"
)

// Func is a registered formula function. Arguments arrive already
// evaluated, in call order. A Func validates its own arity and operand
// kinds and returns a FUNCTION_ARGUMENT error when they do not fit.
type Func func(args []ir.Value) (ir.Value, error)

// Registry maps function names to implementations. The evaluator
// dispatches Call nodes against it; callers can register additional
// functions without modifying the evaluator.
//
// Register is not safe for concurrent use with Evaluate; populate the
// registry before sharing it.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// DefaultRegistry creates a registry preloaded with the builtin
// functions. The clock feeds now() and today().
func DefaultRegistry(clock Clock) *Registry {
	r := NewRegistry()
	r.registerBuiltins(clock)
	return r
}

// Register adds or replaces a function.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

func (r *Registry) registerBuiltins(clock Clock) {
	r.Register("abs", func(args []ir.Value) (ir.Value, error) {
		n, err := oneNumber("abs", args)
		if err != nil {
			return nil, err
		}
		return ir.Number(math.Abs(n)), nil
	})
	r.Register("min", variadicNumber("min", math.Min))
	r.Register("max", variadicNumber("max", math.Max))
	r.Register("round", func(args []ir.Value) (ir.Value, error) {
		n, err := oneNumber("round", args)
		if err != nil {
			return nil, err
		}
		return ir.Number(math.Round(n)), nil
	})
	r.Register("floor", func(args []ir.Value) (ir.Value, error) {
		n, err := oneNumber("floor", args)
		if err != nil {
			return nil, err
		}
		return ir.Number(math.Floor(n)), nil
	})
	r.Register("ceil", func(args []ir.Value) (ir.Value, error) {
		n, err := oneNumber("ceil", args)
		if err != nil {
			return nil, err
		}
		return ir.Number(math.Ceil(n)), nil
	})
	r.Register("len", func(args []ir.Value) (ir.Value, error) {
		s, err := oneText("len", args)
		if err != nil {
			return nil, err
		}
		return ir.Number(len(s)), nil
	})
	r.Register("concat", func(args []ir.Value) (ir.Value, error) {
		var b strings.Builder
		for _, arg := range args {
			b.WriteString(ir.Render(arg))
		}
		return ir.Text(b.String()), nil
	})
	r.Register("upper", textFunc("upper", strings.ToUpper))
	r.Register("lower", textFunc("lower", strings.ToLower))
	r.Register("trim", textFunc("trim", strings.TrimSpace))
	r.Register("if", func(args []ir.Value) (ir.Value, error) {
		if len(args) != 3 {
			return nil, NewFunctionArgumentError("if", "expected 3 arguments, got %d", len(args))
		}
		if ir.Truthy(args[0]) {
			return args[1], nil
		}
		return args[2], nil
	})
	r.Register("coalesce", func(args []ir.Value) (ir.Value, error) {
		if len(args) == 0 {
			return nil, NewFunctionArgumentError("coalesce", "expected at least 1 argument")
		}
		for _, arg := range args {
			if _, isNull := arg.(ir.Null); !isNull {
				return arg, nil
			}
		}
		return ir.Null{}, nil
	})
	r.Register("now", func(args []ir.Value) (ir.Value, error) {
		if len(args) != 0 {
			return nil, NewFunctionArgumentError("now", "expected no arguments, got %d", len(args))
		}
		return ir.Text(clock.Now().Format(time.RFC3339)), nil
	})
	r.Register("today", func(args []ir.Value) (ir.Value, error) {
		if len(args) != 0 {
			return nil, NewFunctionArgumentError("today", "expected no arguments, got %d", len(args))
		}
		return ir.Text(clock.Now().Format("2006-01-02")), nil
	})
}

func oneNumber(name string, args []ir.Value) (float64, error) {
	if len(args) != 1 {
		return 0, NewFunctionArgumentError(name, "expected 1 argument, got %d", len(args))
	}
	n, ok := args[0].(ir.Number)
	if !ok {
		return 0, NewFunctionArgumentError(name, "expected a number, got %s", ir.KindOf(args[0]))
	}
	return float64(n), nil
}

func oneText(name string, args []ir.Value) (string, error) {
	if len(args) != 1 {
		return "", NewFunctionArgumentError(name, "expected 1 argument, got %d", len(args))
	}
	s, ok := args[0].(ir.Text)
	if !ok {
		return "", NewFunctionArgumentError(name, "expected text, got %s", ir.KindOf(args[0]))
	}
	return string(s), nil
}

func textFunc(name string, fn func(string) string) Func {
	return func(args []ir.Value) (ir.Value, error) {
		s, err := oneText(name, args)
		if err != nil {
			return nil, err
		}
		return ir.Text(fn(s)), nil
	}
}

// variadicNumber folds a binary float64 function over one or more
// numeric arguments (min, max).
func variadicNumber(name string, fold func(a, b float64) float64) Func {
	return func(args []ir.Value) (ir.Value, error) {
		if len(args) == 0 {
			return nil, NewFunctionArgumentError(name, "expected at least 1 argument")
		}
		var acc float64
		for i, arg := range args {
			n, ok := arg.(ir.Number)
			if !ok {
				return nil, NewFunctionArgumentError(name, "argument %d: expected a number, got %s", i+1, ir.KindOf(arg))
			}
			if i == 0 {
				acc = float64(n)
			} else {
				acc = fold(acc, float64(n))
			}
		}
		return ir.Number(acc), nil
	}
}
