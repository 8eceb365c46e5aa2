package ir

import (
	"math"
	"strconv"
)

// Value is a sealed interface representing the runtime value types of the
// formula language. Only Number, Text, Bool, and Null implement it.
//
// Values are immutable. A field snapshot maps field identifiers to Values
// and is never mutated by the core; evaluation produces new Values.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents the formula-language null value.
// Using an explicit type ensures all Values satisfy the sealed interface;
// a Go nil Value means "absent", which is distinct from Null (a missing
// snapshot key is an undefined-field error, not null).
type Null struct{}

func (Null) value() {}

// Number represents a numeric value. All arithmetic is float64.
type Number float64

func (Number) value() {}

// Text represents a string value.
type Text string

func (Text) value() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// Kind identifies the runtime kind of a Value. Used in error messages
// and coercion diagnostics.
type Kind string

const (
	KindNull   Kind = "null"
	KindNumber Kind = "number"
	KindText   Kind = "text"
	KindBool   Kind = "boolean"
)

// KindOf returns the Kind of a Value. A nil Value reports KindNull;
// callers that must distinguish absence handle nil before calling.
func KindOf(v Value) Kind {
	switch v.(type) {
	case Number:
		return KindNumber
	case Text:
		return KindText
	case Bool:
		return KindBool
	default:
		return KindNull
	}
}

// Truthy implements the truthiness rule shared by the logical operators
// and BOOLEAN coercion:
//
//	null          → false
//	boolean       → itself
//	number        → false iff zero
//	text          → false iff empty
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(val)
	case Number:
		return val != 0
	case Text:
		return val != ""
	default:
		// nil Value (absent). Callers should have rejected this already.
		return false
	}
}

// Render returns the textual representation of a Value, as used by TEXT
// coercion and diagnostic output.
//
// Numbers that hold an integral value render with a single trailing
// decimal ("15.0") so that computed totals are visually distinct from
// user-typed text; non-integral numbers render with the shortest exact
// representation.
func Render(v Value) string {
	switch val := v.(type) {
	case Null:
		return ""
	case Text:
		return string(val)
	case Bool:
		if val {
			return "true"
		}
		return "false"
	case Number:
		return renderNumber(float64(val))
	default:
		return ""
	}
}

func renderNumber(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Equal compares two Values for the == / != operators. Cross-kind
// comparison never fails; it simply reports unequal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	default:
		return false
	}
}
