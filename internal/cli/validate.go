package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/fieldcalc/internal/formula"
	"github.com/roach88/fieldcalc/internal/schedule"
)

// NewValidateCommand creates the validate command: parse every formula
// in a schema and check the dependency graph, collecting all problems
// before reporting.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema.cue>",
		Short: "Parse all formulas and check for dependency cycles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)

			schema, err := LoadSchema(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "loading schema", err)
			}

			problems := validateSchema(schema)
			if opts.Format == "json" {
				resp := Response{Status: "ok", Data: map[string]any{"entity": schema.Entity}}
				if len(problems) > 0 {
					resp.Status = "error"
					resp.Errors = problems
				}
				if err := out.EmitJSON(resp); err != nil {
					return err
				}
			} else {
				if len(problems) == 0 {
					out.Printf("ok: %s (%d fields, %d calculated)\n",
						schema.Entity, len(schema.Fields), len(schema.CalculatedFields()))
				}
				for _, p := range problems {
					out.Printf("error: %s\n", p)
				}
			}

			if len(problems) > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d validation errors", len(problems)))
			}
			return nil
		},
	}
	return cmd
}

// validateSchema collects every formula problem in one pass: syntax
// errors per field first, then a cycle check over the formulas that did
// parse.
func validateSchema(schema *Schema) []string {
	var problems []string
	asts := make(map[string]formula.Node)

	calculated := schema.CalculatedFields()
	ids := make([]string, 0, len(calculated))
	for id := range calculated {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		root, err := formula.Parse(calculated[id])
		if err != nil {
			problems = append(problems, fmt.Sprintf("field %q: %v", id, err))
			continue
		}
		asts[id] = root
	}

	if _, err := schedule.Build(asts).Order(); err != nil {
		problems = append(problems, err.Error())
	}
	return problems
}
