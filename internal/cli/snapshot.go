package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/fieldcalc/internal/eval"
	"github.com/roach88/fieldcalc/internal/ir"
)

// LoadSnapshot reads a YAML file of field values:
//
//	depth_from: 5.0
//	depth_to: 10.0
//	hole_id: "BH-001"
//	cased: true
//	remark: null
//
// Keys are normalized to canonical identifiers. Nested mappings and
// sequences are rejected; snapshots are flat.
func LoadSnapshot(path string) (eval.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("reading snapshot: %v", err)}
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("parsing snapshot YAML: %v", err)}
	}

	snap := make(eval.Snapshot, len(raw))
	for key, v := range raw {
		value, err := toValue(v)
		if err != nil {
			return nil, &LoadError{Path: path, Message: fmt.Sprintf("field %q: %v", key, err)}
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
		return nil, fmt.Errorf("unsupported value type %T (snapshots are flat: number, text, boolean, or null)", v)
	}
}
