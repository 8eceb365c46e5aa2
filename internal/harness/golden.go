package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot is the serialized form compared against golden files.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Order        []string     `json:"order"`
	Trace        []TraceEvent `json:"trace"`
}

// RunWithGolden executes a scenario and compares its trace against the
// golden file testdata/<scenario.Name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden traces are the source of truth for expected batch behavior:
// values, error messages, and evaluation order all participate in the
// comparison, so any semantic drift in the engine shows up as a diff.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	run, err := Run(scenario)
	if err != nil {
		return err
	}

	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		Order:        run.Order,
		Trace:        run.Trace,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t)
	g.Assert(t, scenario.Name, data)
	return nil
}
