// Package engine orchestrates formula evaluation over one entity's
// calculated fields: compile every formula, order them by dependency,
// then evaluate strictly sequentially, threading each freshly computed
// value into the snapshot seen by later fields.
package engine

import (
	"github.com/roach88/fieldcalc/internal/eval"
	"github.com/roach88/fieldcalc/internal/formula"
	"github.com/roach88/fieldcalc/internal/ir"
	"github.com/roach88/fieldcalc/internal/schedule"
)

// Engine evaluates batches of calculated fields. Stateless apart from
// the evaluator; safe for concurrent use with distinct inputs.
type Engine struct {
	evaluator *eval.Evaluator
}

// New creates an Engine. A nil registry gets the builtin functions on
// the system clock.
func New(registry *eval.Registry) *Engine {
	return &Engine{evaluator: eval.New(registry)}
}

// FieldResult is the outcome of evaluating one calculated field: a
// value or the error that prevented one. Exactly one of the two is set.
type FieldResult struct {
	Value ir.Value
	Err   error
}

// BatchResult holds per-field outcomes for one entity batch.
type BatchResult struct {
	// Order is the evaluation order that was used. Fields whose
	// formulas failed to parse are not in Order but do appear in
	// Results with their parse error.
	Order []string

	// Results has one entry per calculated field.
	Results map[string]FieldResult
}

// EvaluateBatch compiles and evaluates every calculated field of one
// entity.
//
// fields maps field id to formula text; snap supplies the values of all
// non-calculated fields. The input snapshot is never mutated.
//
// Error policy, mirroring the per-kind propagation rules:
//   - A formula that fails to parse gets its SyntaxError as that
//     field's result. The field is excluded from ordering; fields that
//     reference it fail with an undefined-field error.
//   - A dependency cycle aborts the whole batch: EvaluateBatch returns
//     a CycleError and no BatchResult, since no order exists.
//   - An evaluation failure is recorded per field and never aborts the
//     batch; fields referencing a failed field fail the same way.
func (e *Engine) EvaluateBatch(fields map[string]string, snap eval.Snapshot) (*BatchResult, error) {
	results := make(map[string]FieldResult, len(fields))
	asts := make(map[string]formula.Node, len(fields))

	for id, text := range fields {
		root, err := formula.Parse(text)
		if err != nil {
			results[id] = FieldResult{Err: err}
			continue
		}
		asts[id] = root
	}

	order, err := schedule.Build(asts).Order()
	if err != nil {
		return nil, err
	}

	// Working copy: computed values are threaded into later
	// evaluations without touching the caller's snapshot.
	working := make(eval.Snapshot, len(snap)+len(order))
	for k, v := range snap {
		working[k] = v
	}

	for _, id := range order {
		value, err := e.evaluator.Evaluate(asts[id], working)
		if err != nil {
			results[id] = FieldResult{Err: err}
			continue
		}
		results[id] = FieldResult{Value: value}
		working[id] = value
	}

	return &BatchResult{Order: order, Results: results}, nil
}

// EvaluateFormula compiles and evaluates a single formula against a
// snapshot. Convenience for callers outside batch flow (CLI eval, UI
// previews).
func (e *Engine) EvaluateFormula(text string, snap eval.Snapshot) (ir.Value, error) {
	root, err := formula.Parse(text)
	if err != nil {
		return nil, err
	}
	return e.evaluator.Evaluate(root, snap)
}
