// Package eval is the tree-walking interpreter for parsed formulas.
//
// Evaluation is synchronous, side-effect-free, and CPU-bound: no I/O,
// no locks, no mutation of the snapshot. A per-formula wall-clock
// budget, if one is ever needed, belongs to the caller.
package eval

import (
	"math"

	"github.com/roach88/fieldcalc/internal/formula"
	"github.com/roach88/fieldcalc/internal/ir"
)

// Snapshot is a read-only mapping from field identifier to its value at
// the moment of evaluation. A missing key is an undefined-field error,
// not null.
type Snapshot map[string]ir.Value

// Evaluator evaluates ASTs against snapshots using a function registry.
// Evaluator is stateless apart from the registry and is safe for
// concurrent use once the registry is populated.
type Evaluator struct {
	registry *Registry
}

// New creates an Evaluator. A nil registry gets the builtin functions
// on the system clock.
func New(registry *Registry) *Evaluator {
	if registry == nil {
		registry = DefaultRegistry(SystemClock{})
	}
	return &Evaluator{registry: registry}
}

// Evaluate walks the AST and produces a value or an evaluation error.
// Any sub-expression failure propagates immediately and aborts the
// enclosing expression (fail-fast within a single formula).
func (e *Evaluator) Evaluate(root formula.Node, snap Snapshot) (ir.Value, error) {
	switch n := root.(type) {
	case *formula.Literal:
		return n.Value, nil
	case *formula.FieldRef:
		v, ok := snap[n.Name]
		if !ok {
			return nil, NewUndefinedFieldError(n.Name)
		}
		return v, nil
	case *formula.Unary:
		return e.evalUnary(n, snap)
	case *formula.Binary:
		return e.evalBinary(n, snap)
	case *formula.Call:
		return e.evalCall(n, snap)
	default:
		// Unreachable: Node is sealed.
		return nil, NewTypeMismatchError("?", "unknown node")
	}
}

func (e *Evaluator) evalUnary(n *formula.Unary, snap Snapshot) (ir.Value, error) {
	operand, err := e.Evaluate(n.Operand, snap)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case formula.OpNot:
		return ir.Bool(!ir.Truthy(operand)), nil
	case formula.OpSub:
		num, ok := operand.(ir.Number)
		if !ok {
			return nil, NewTypeMismatchError("-", string(ir.KindOf(operand)))
		}
		return ir.Number(-float64(num)), nil
	case formula.OpAdd:
		if _, ok := operand.(ir.Number); !ok {
			return nil, NewTypeMismatchError("+", string(ir.KindOf(operand)))
		}
		return operand, nil
	}
	return nil, NewTypeMismatchError(string(n.Op), string(ir.KindOf(operand)))
}

func (e *Evaluator) evalBinary(n *formula.Binary, snap Snapshot) (ir.Value, error) {
	// and/or short-circuit: the right side is only evaluated when it
	// can still decide the outcome, and the result is the deciding
	// operand's value, not a boolean.
	switch n.Op {
	case formula.OpAnd:
		left, err := e.Evaluate(n.Left, snap)
		if err != nil {
			return nil, err
		}
		if !ir.Truthy(left) {
			return left, nil
		}
		return e.Evaluate(n.Right, snap)
	case formula.OpOr:
		left, err := e.Evaluate(n.Left, snap)
		if err != nil {
			return nil, err
		}
		if ir.Truthy(left) {
			return left, nil
		}
		return e.Evaluate(n.Right, snap)
	}

	left, err := e.Evaluate(n.Left, snap)
	if err != nil {
		return nil, err
	}
	right, err := e.Evaluate(n.Right, snap)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case formula.OpEq:
		return ir.Bool(ir.Equal(left, right)), nil
	case formula.OpNeq:
		return ir.Bool(!ir.Equal(left, right)), nil
	case formula.OpLt, formula.OpLte, formula.OpGt, formula.OpGte:
		return compare(n.Op, left, right)
	case formula.OpAdd, formula.OpSub, formula.OpMul, formula.OpDiv, formula.OpMod, formula.OpPow:
		return arithmetic(n.Op, left, right)
	}
	return nil, NewTypeMismatchError(string(n.Op), string(ir.KindOf(left)), string(ir.KindOf(right)))
}

// compare handles the ordering operators. Both operands must share a
// semantic type: number with number, or text with text. Anything else
// is a type mismatch (unlike == / !=, which never fail).
func compare(op formula.Op, left, right ir.Value) (ir.Value, error) {
	if ln, ok := left.(ir.Number); ok {
		if rn, ok := right.(ir.Number); ok {
			return orderResult(op, cmpFloat(float64(ln), float64(rn))), nil
		}
	}
	if lt, ok := left.(ir.Text); ok {
		if rt, ok := right.(ir.Text); ok {
			return orderResult(op, strCmp(string(lt), string(rt))), nil
		}
	}
	return nil, NewTypeMismatchError(string(op), string(ir.KindOf(left)), string(ir.KindOf(right)))
}

func orderResult(op formula.Op, cmp int) ir.Value {
	switch op {
	case formula.OpLt:
		return ir.Bool(cmp < 0)
	case formula.OpLte:
		return ir.Bool(cmp <= 0)
	case formula.OpGt:
		return ir.Bool(cmp > 0)
	default: // OpGte
		return ir.Bool(cmp >= 0)
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func strCmp(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func arithmetic(op formula.Op, left, right ir.Value) (ir.Value, error) {
	ln, lok := left.(ir.Number)
	rn, rok := right.(ir.Number)
	if !lok || !rok {
		return nil, NewTypeMismatchError(string(op), string(ir.KindOf(left)), string(ir.KindOf(right)))
	}
	a, b := float64(ln), float64(rn)
	switch op {
	case formula.OpAdd:
		return ir.Number(a + b), nil
	case formula.OpSub:
		return ir.Number(a - b), nil
	case formula.OpMul:
		return ir.Number(a * b), nil
	case formula.OpDiv:
		if b == 0 {
			return nil, NewDivisionByZeroError("/")
		}
		return ir.Number(a / b), nil
	case formula.OpMod:
		if b == 0 {
			return nil, NewDivisionByZeroError("%")
		}
		return ir.Number(math.Mod(a, b)), nil
	default: // OpPow
		return ir.Number(math.Pow(a, b)), nil
	}
}

// evalCall evaluates every argument eagerly, left to right, then
// dispatches against the registry.
func (e *Evaluator) evalCall(n *formula.Call, snap Snapshot) (ir.Value, error) {
	args := make([]ir.Value, len(n.Args))
	for i, argNode := range n.Args {
		arg, err := e.Evaluate(argNode, snap)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	fn, ok := e.registry.Lookup(n.Name)
	if !ok {
		return nil, NewUnknownFunctionError(n.Name)
	}
	return fn(args)
}
