package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/fieldcalc/internal/formula"
	"github.com/roach88/fieldcalc/internal/schedule"
)

// NewOrderCommand creates the order command: print the deterministic
// evaluation order of a schema's calculated fields.
func NewOrderCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order <schema.cue>",
		Short: "Print the evaluation order of the calculated fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)

			schema, err := LoadSchema(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "loading schema", err)
			}

			asts := make(map[string]formula.Node)
			for id, text := range schema.CalculatedFields() {
				root, err := formula.Parse(text)
				if err != nil {
					return WrapExitError(ExitFailure, "parsing formula for "+id, err)
				}
				asts[id] = root
			}

			graph := schedule.Build(asts)
			order, err := graph.Order()
			if err != nil {
				return WrapExitError(ExitFailure, "ordering fields", err)
			}

			if opts.Format == "json" {
				return out.EmitJSON(Response{Status: "ok", Data: map[string]any{
					"entity": schema.Entity,
					"order":  order,
				}})
			}
			for i, id := range order {
				out.Printf("%d. %s", i+1, id)
				if deps := graph.Dependencies(id); len(deps) > 0 {
					out.Printf("  (after %v)", deps)
				}
				out.Printf("\n")
			}
			return nil
		},
	}
	return cmd
}
