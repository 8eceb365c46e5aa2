package ir

import (
	"errors"
	"fmt"
)

// TargetType identifies one of the externally visible output
// representations a computed value can be coerced into.
type TargetType string

const (
	TargetText    TargetType = "TEXT"
	TargetNumber  TargetType = "NUMBER"
	TargetBoolean TargetType = "BOOLEAN"
)

// ParseTargetType converts a string (e.g. from a CUE schema or a CLI
// flag) into a TargetType.
func ParseTargetType(s string) (TargetType, error) {
	switch TargetType(s) {
	case TargetText, TargetNumber, TargetBoolean:
		return TargetType(s), nil
	}
	return "", fmt.Errorf("unknown target type %q (want TEXT, NUMBER, or BOOLEAN)", s)
}

// CoerceError reports a value that cannot be represented as the
// requested target type.
type CoerceError struct {
	Target TargetType
	Kind   Kind
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("cannot coerce %s value to %s", e.Kind, e.Target)
}

// IsCoerceError reports whether err is a coercion failure.
// Uses errors.As to handle wrapped errors.
func IsCoerceError(err error) bool {
	var ce *CoerceError
	return errors.As(err, &ce)
}

// Coerce converts an evaluated value into the requested target
// representation. The rules are strict and exhaustive:
//
//	TEXT:    never fails; null renders as empty text.
//	NUMBER:  numbers pass through; booleans, text (even numeric-looking
//	         text), and null are rejected.
//	BOOLEAN: never fails; applies the evaluator's truthiness rule.
func Coerce(v Value, target TargetType) (Value, error) {
	switch target {
	case TargetText:
		return Text(Render(v)), nil
	case TargetNumber:
		if n, ok := v.(Number); ok {
			return n, nil
		}
		return nil, &CoerceError{Target: TargetNumber, Kind: KindOf(v)}
	case TargetBoolean:
		return Bool(Truthy(v)), nil
	default:
		return nil, fmt.Errorf("unknown target type %q", target)
	}
}
