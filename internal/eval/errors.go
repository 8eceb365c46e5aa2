package eval

import (
	"errors"
	"fmt"
)

// Error represents a failure detected while evaluating one formula.
//
// Evaluation errors are values, never panics, so a batch evaluator can
// collect one result per field instead of aborting on the first failure.
// Error includes structured fields for diagnostics.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Field names the missing field (for undefined-field errors).
	Field string

	// Function names the function (for unknown-function and
	// function-argument errors).
	Function string
}

// ErrorCode categorizes evaluation errors.
type ErrorCode string

const (
	// ErrCodeUndefinedField indicates a referenced field is absent from
	// the snapshot. A missing key is not null.
	ErrCodeUndefinedField ErrorCode = "UNDEFINED_FIELD"

	// ErrCodeTypeMismatch indicates an operator was applied to operand
	// kinds it does not accept.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeDivisionByZero indicates division or modulo by zero.
	ErrCodeDivisionByZero ErrorCode = "DIVISION_BY_ZERO"

	// ErrCodeUnknownFunction indicates a call to an unregistered function.
	ErrCodeUnknownFunction ErrorCode = "UNKNOWN_FUNCTION"

	// ErrCodeFunctionArgument indicates a function rejected its
	// arguments (arity or type).
	ErrCodeFunctionArgument ErrorCode = "FUNCTION_ARGUMENT"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUndefinedField reports whether err is an undefined-field error.
// Uses errors.As to handle wrapped errors.
func IsUndefinedField(err error) bool {
	return hasCode(err, ErrCodeUndefinedField)
}

// IsTypeMismatch reports whether err is a type-mismatch error.
func IsTypeMismatch(err error) bool {
	return hasCode(err, ErrCodeTypeMismatch)
}

// IsDivisionByZero reports whether err is a division-by-zero error.
func IsDivisionByZero(err error) bool {
	return hasCode(err, ErrCodeDivisionByZero)
}

// IsUnknownFunction reports whether err is an unknown-function error.
func IsUnknownFunction(err error) bool {
	return hasCode(err, ErrCodeUnknownFunction)
}

func hasCode(err error, code ErrorCode) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// NewUndefinedFieldError creates an Error for a snapshot miss.
func NewUndefinedFieldError(field string) *Error {
	return &Error{
		Code:    ErrCodeUndefinedField,
		Message: fmt.Sprintf("field %q is not defined", field),
		Field:   field,
	}
}

// NewTypeMismatchError creates an Error for an operator applied to
// unsupported operand kinds.
func NewTypeMismatchError(op string, kinds ...string) *Error {
	return &Error{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("operator %q cannot be applied to %s", op, joinKinds(kinds)),
	}
}

// NewDivisionByZeroError creates an Error for division or modulo by zero.
func NewDivisionByZeroError(op string) *Error {
	return &Error{
		Code:    ErrCodeDivisionByZero,
		Message: fmt.Sprintf("%s by zero", opVerb(op)),
	}
}

// NewUnknownFunctionError creates an Error for an unregistered function.
func NewUnknownFunctionError(name string) *Error {
	return &Error{
		Code:     ErrCodeUnknownFunction,
		Message:  fmt.Sprintf("unknown function %q", name),
		Function: name,
	}
}

// NewFunctionArgumentError creates an Error raised by a function's own
// argument validation.
func NewFunctionArgumentError(name, format string, args ...any) *Error {
	return &Error{
		Code:     ErrCodeFunctionArgument,
		Message:  fmt.Sprintf("%s: %s", name, fmt.Sprintf(format, args...)),
		Function: name,
	}
}

func joinKinds(kinds []string) string {
	switch len(kinds) {
	case 0:
		return "these operands"
	case 1:
		return kinds[0]
	default:
		return kinds[0] + " and " + kinds[1]
	}
}

func opVerb(op string) string {
	if op == "%" {
		return "modulo"
	}
	return "division"
}
