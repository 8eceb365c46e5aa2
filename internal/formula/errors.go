package formula

import (
	"errors"
	"fmt"
)

// SyntaxError reports a tokenizer or parser failure. It carries the
// character offset of the offending input so editors can point at it.
//
// A SyntaxError always aborts processing of the whole formula; the
// tokenizer and parser never return partial output alongside one.
type SyntaxError struct {
	Position int
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Position, e.Message)
}

// IsSyntaxError reports whether err is a formula syntax error.
// Uses errors.As to handle wrapped errors.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

func syntaxErrorf(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Position: pos, Message: fmt.Sprintf(format, args...)}
}
