package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/fieldcalc/internal/engine"
	"github.com/roach88/fieldcalc/internal/eval"
	"github.com/roach88/fieldcalc/internal/ir"
)

// NewEvalCommand creates the eval command: evaluate one formula against
// an optional YAML snapshot, optionally coercing to a target type.
func NewEvalCommand(opts *RootOptions) *cobra.Command {
	var (
		snapshotPath string
		target       string
	)

	cmd := &cobra.Command{
		Use:   "eval <formula>",
		Short: "Evaluate a single formula against a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)

			snap := eval.Snapshot{}
			if snapshotPath != "" {
				loaded, err := LoadSnapshot(snapshotPath)
				if err != nil {
					return WrapExitError(ExitCommandError, "loading snapshot", err)
				}
				snap = loaded
			}

			value, err := engine.New(nil).EvaluateFormula(args[0], snap)
			if err != nil {
				return WrapExitError(ExitFailure, "evaluating formula", err)
			}

			if target != "" {
				tt, err := ir.ParseTargetType(target)
				if err != nil {
					return WrapExitError(ExitCommandError, "parsing target type", err)
				}
				value, err = ir.Coerce(value, tt)
				if err != nil {
					return WrapExitError(ExitFailure, "coercing result", err)
				}
			}

			if opts.Format == "json" {
				return out.EmitJSON(Response{Status: "ok", Data: map[string]any{
					"kind":  string(ir.KindOf(value)),
					"value": ir.Render(value),
				}})
			}
			out.Printf("%s\n", ir.Render(value))
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "YAML file of field values")
	cmd.Flags().StringVar(&target, "target", "", "coerce the result (TEXT|NUMBER|BOOLEAN)")
	return cmd
}
