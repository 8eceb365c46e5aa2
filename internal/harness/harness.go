package harness

import (
	"fmt"
	"sort"
	"time"

	"github.com/roach88/fieldcalc/internal/engine"
	"github.com/roach88/fieldcalc/internal/eval"
	"github.com/roach88/fieldcalc/internal/ir"
)

// TraceEvent is one per-field outcome in the run trace, in evaluation
// order. Failed fields carry the error code and message instead of a
// value.
type TraceEvent struct {
	Field string `json:"field"`
	Kind  string `json:"kind,omitempty"`
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// RunResult is the outcome of executing one scenario.
type RunResult struct {
	Order  []string
	Trace  []TraceEvent
	Result *engine.BatchResult
}

// Run executes a scenario and produces its trace.
//
// A cycle error is returned as an error (the scenario cannot run);
// per-field evaluation failures appear in the trace instead.
func Run(scenario *Scenario) (*RunResult, error) {
	snap, err := scenario.snapshot()
	if err != nil {
		return nil, err
	}

	clock := eval.Clock(eval.SystemClock{})
	if scenario.ClockInstant != "" {
		instant, err := time.Parse(time.RFC3339, scenario.ClockInstant)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: invalid clock_instant: %w", scenario.Name, err)
		}
		clock = eval.FixedClock{Instant: instant}
	}

	fields := make(map[string]string, len(scenario.Fields))
	for id, formula := range scenario.Fields {
		fields[ir.NormalizeIdent(id)] = formula
	}

	result, err := engine.New(eval.DefaultRegistry(clock)).EvaluateBatch(fields, snap)
	if err != nil {
		return nil, err
	}

	run := &RunResult{Order: result.Order, Result: result}
	for _, id := range result.Order {
		run.Trace = append(run.Trace, traceEvent(id, result.Results[id]))
	}
	// Parse failures are excluded from the order; append them at the
	// end, sorted, so the trace still covers every field.
	for _, id := range sortedKeys(result.Results) {
		if !contains(result.Order, id) {
			run.Trace = append(run.Trace, traceEvent(id, result.Results[id]))
		}
	}
	return run, nil
}

func traceEvent(id string, fr engine.FieldResult) TraceEvent {
	if fr.Err != nil {
		return TraceEvent{Field: id, Error: fr.Err.Error()}
	}
	return TraceEvent{
		Field: id,
		Kind:  string(ir.KindOf(fr.Value)),
		Value: ir.Render(fr.Value),
	}
}

// Check compares a run against the scenario's expectations. Expected
// values are rendered text; "error:" prefixes match on the error
// message's leading code. Returns one message per mismatch.
func Check(scenario *Scenario, run *RunResult) []string {
	var mismatches []string
	for _, id := range sortedStringKeys(scenario.Expect) {
		want := scenario.Expect[id]
		fr, ok := run.Result.Results[ir.NormalizeIdent(id)]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: no result (not a calculated field?)", id))
			continue
		}
		got := ""
		if fr.Err != nil {
			got = "error:" + fr.Err.Error()
		} else {
			got = ir.Render(fr.Value)
		}
		if !matches(want, got) {
			mismatches = append(mismatches, fmt.Sprintf("%s: want %q, got %q", id, want, got))
		}
	}
	return mismatches
}

// matches treats an "error:PREFIX" expectation as a prefix match so
// scenarios can assert on the error code without pinning the full
// message text.
func matches(want, got string) bool {
	if len(want) > 6 && want[:6] == "error:" {
		return len(got) >= len(want) && got[:len(want)] == want
	}
	return want == got
}

func sortedKeys(m map[string]engine.FieldResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
