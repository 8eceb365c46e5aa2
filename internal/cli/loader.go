package cli

import (
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/fieldcalc/internal/engine"
	"github.com/roach88/fieldcalc/internal/ir"
)

// Schema is an entity's field definitions as loaded from a CUE file.
type Schema struct {
	Entity string
	Fields []FieldDef
}

// FieldDef describes one field. A field with a non-empty Formula is a
// calculated field; everything else is user-supplied and must come from
// the snapshot.
type FieldDef struct {
	Name    string
	Type    string // declared type, informational: "number" | "text" | "boolean"
	Formula string
	Outputs []engine.Mapping
}

// CalculatedFields returns {field id -> formula text} for the batch
// evaluator, with identifiers in canonical form.
func (s *Schema) CalculatedFields() map[string]string {
	fields := make(map[string]string)
	for _, f := range s.Fields {
		if f.Formula != "" {
			fields[f.Name] = f.Formula
		}
	}
	return fields
}

// LoadError represents an error that occurred during schema loading.
type LoadError struct {
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// rawSchema mirrors the CUE shape of a schema file:
//
//	entity: "interval"
//	fields: {
//	    depth_from: {type: "number"}
//	    thickness: {
//	        type:    "number"
//	        formula: "depth_to - depth_from"
//	        outputs: [{formula: "depth_to - depth_from", target: "TEXT"}]
//	    }
//	}
type rawSchema struct {
	Entity string              `json:"entity"`
	Fields map[string]rawField `json:"fields"`
}

type rawField struct {
	Type    string       `json:"type"`
	Formula string       `json:"formula"`
	Outputs []rawMapping `json:"outputs"`
}

type rawMapping struct {
	Formula string `json:"formula"`
	Target  string `json:"target"`
}

// LoadSchema loads and validates one CUE schema file.
//
// CUE gives schema authors defaults, constraints, and composition for
// free; this loader only asks for the final concrete value.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("reading schema: %v", err)}
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("compiling CUE: %v", err)}
	}

	var raw rawSchema
	if err := value.Decode(&raw); err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("decoding schema: %v", err)}
	}
	if raw.Entity == "" {
		return nil, &LoadError{Path: path, Message: "schema is missing an entity name"}
	}
	if len(raw.Fields) == 0 {
		return nil, &LoadError{Path: path, Message: "schema declares no fields"}
	}

	schema := &Schema{Entity: raw.Entity}
	names := make([]string, 0, len(raw.Fields))
	for name := range raw.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rf := raw.Fields[name]
		def := FieldDef{
			Name:    ir.NormalizeIdent(name),
			Type:    rf.Type,
			Formula: rf.Formula,
		}
		for _, m := range rf.Outputs {
			target, err := ir.ParseTargetType(m.Target)
			if err != nil {
				return nil, &LoadError{Path: path, Message: fmt.Sprintf("field %q: %v", name, err)}
			}
			def.Outputs = append(def.Outputs, engine.Mapping{Formula: m.Formula, Target: target})
		}
		schema.Fields = append(schema.Fields, def)
	}
	return schema, nil
}
