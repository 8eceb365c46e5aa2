package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/fieldcalc/internal/eval"
	"github.com/roach88/fieldcalc/internal/ir"
)

// Mapping is one output candidate for a field: a formula plus the
// target representation its result must coerce into (e.g. for document
// generation).
type Mapping struct {
	Formula string
	Target  ir.TargetType
}

// MappingError aggregates the failures of every candidate mapping when
// none of them produced a usable value. Attempts are listed in declared
// order; nothing is dropped or downgraded.
type MappingError struct {
	Attempts []AttemptError
}

// AttemptError records why one candidate mapping failed.
type AttemptError struct {
	Formula string
	Target  ir.TargetType
	Err     error
}

func (e *MappingError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%q -> %s: %v", a.Formula, a.Target, a.Err)
	}
	return fmt.Sprintf("all %d output mappings failed: %s", len(e.Attempts), strings.Join(parts, "; "))
}

// IsMappingError reports whether err is an aggregated mapping failure.
// Uses errors.As to handle wrapped errors.
func IsMappingError(err error) bool {
	var me *MappingError
	return errors.As(err, &me)
}

// ResolveMapping tries each candidate mapping in declared order and
// returns the result of the first one that both evaluates and coerces
// successfully. If every candidate fails, the aggregated MappingError
// lists each attempt's error.
func (e *Engine) ResolveMapping(mappings []Mapping, snap eval.Snapshot) (ir.Value, error) {
	if len(mappings) == 0 {
		return nil, fmt.Errorf("no output mappings declared")
	}
	var attempts []AttemptError
	for _, m := range mappings {
		value, err := e.EvaluateFormula(m.Formula, snap)
		if err == nil {
			var coerced ir.Value
			coerced, err = ir.Coerce(value, m.Target)
			if err == nil {
				return coerced, nil
			}
		}
		attempts = append(attempts, AttemptError{Formula: m.Formula, Target: m.Target, Err: err})
	}
	return nil, &MappingError{Attempts: attempts}
}
