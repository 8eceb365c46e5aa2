package eval

import "time"

// Clock supplies the current time to the now() and today() builtins.
//
// The evaluator itself never performs I/O or reads the wall clock; the
// only time-dependent behavior lives behind this interface so tests and
// golden comparisons stay deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock returns a predetermined instant on every call.
//
// This enables deterministic test execution and golden comparison for
// formulas that use now() or today().
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Instant
}
