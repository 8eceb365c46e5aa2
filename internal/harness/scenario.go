// Package harness runs YAML-defined evaluation scenarios and compares
// their traces against golden files. It exists for tests: scenarios
// keep end-to-end coverage declarative, and golden traces pin down the
// exact values, errors, and ordering a batch produces.
package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/fieldcalc/internal/eval"
	"github.com/roach88/fieldcalc/internal/ir"
)

// Scenario defines one conformance scenario: an entity's calculated
// fields, the snapshot they run against, and optional expectations.
type Scenario struct {
	// Name uniquely identifies this scenario; it is also the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Fields maps field id to formula text.
	Fields map[string]string `yaml:"fields"`

	// Snapshot supplies the user-entered field values.
	Snapshot map[string]any `yaml:"snapshot,omitempty"`

	// Expect lists per-field expectations checked after the run.
	// Values are rendered text; use "error:<CODE>" to expect a failure.
	Expect map[string]string `yaml:"expect,omitempty"`

	// ClockInstant pins now()/today() for determinism (RFC 3339).
	// Empty means the scenario must not use time functions.
	ClockInstant string `yaml:"clock_instant,omitempty"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s has no name", path)
	}
	if len(s.Fields) == 0 {
		return nil, fmt.Errorf("scenario %s declares no fields", s.Name)
	}
	return &s, nil
}

// snapshot converts the YAML snapshot into evaluator values with
// canonical identifiers.
func (s *Scenario) snapshot() (eval.Snapshot, error) {
	snap := make(eval.Snapshot, len(s.Snapshot))
	for key, v := range s.Snapshot {
		value, err := toValue(v)
		if err != nil {
			return nil, fmt.Errorf("snapshot field %q: %w", key, err)
		}
		snap[ir.NormalizeIdent(key)] = value
	}
	return snap, nil
}

func toValue(v any) (ir.Value, error) {
	switch val := v.(type) {
	case nil:
		return ir.Null{}, nil
	case bool:
		return ir.Bool(val), nil
	case int:
		return ir.Number(val), nil
	case int64:
		return ir.Number(val), nil
	case float64:
		return ir.Number(val), nil
	case string:
		return ir.Text(val), nil
	default:
		return nil, fmt.Errorf("unsupported snapshot value type %T", v)
	}
}
