package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/fieldcalc/internal/engine"
	"github.com/roach88/fieldcalc/internal/ir"
	"github.com/roach88/fieldcalc/internal/store"
)

// NewRunCommand creates the run command: evaluate every calculated
// field of a schema against a snapshot, report per-field results, and
// optionally record the run to a SQLite history database.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	var (
		snapshotPath string
		dbPath       string
	)

	cmd := &cobra.Command{
		Use:   "run <schema.cue>",
		Short: "Evaluate all calculated fields of an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)

			schema, err := LoadSchema(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "loading schema", err)
			}
			snap, err := LoadSnapshot(snapshotPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading snapshot", err)
			}

			result, err := engine.New(nil).EvaluateBatch(schema.CalculatedFields(), snap)
			if err != nil {
				// Cycles block the whole batch: no order exists.
				return WrapExitError(ExitFailure, "ordering fields", err)
			}

			failed := 0
			for _, fr := range result.Results {
				if fr.Err != nil {
					failed++
				}
			}

			if dbPath != "" {
				s, err := store.Open(dbPath)
				if err != nil {
					return WrapExitError(ExitCommandError, "opening history database", err)
				}
				defer s.Close()
				token := store.NewRunToken()
				if err := s.RecordRun(token, schema.Entity, time.Now(), result); err != nil {
					return WrapExitError(ExitCommandError, "recording run", err)
				}
				out.Verbosef("recorded run %s\n", token)
			}

			if opts.Format == "json" {
				data := map[string]any{
					"entity": schema.Entity,
					"order":  result.Order,
					"fields": renderResults(result),
				}
				resp := Response{Status: "ok", Data: data}
				if failed > 0 {
					resp.Status = "error"
				}
				if err := out.EmitJSON(resp); err != nil {
					return err
				}
			} else {
				for _, id := range result.Order {
					fr := result.Results[id]
					if fr.Err != nil {
						out.Printf("%s: error: %v\n", id, fr.Err)
					} else {
						out.Printf("%s = %s\n", id, ir.Render(fr.Value))
					}
				}
				// Parse failures are not in Order.
				unordered := make([]string, 0)
				for id, fr := range result.Results {
					if fr.Err != nil && !contains(result.Order, id) {
						unordered = append(unordered, id)
					}
				}
				sort.Strings(unordered)
				for _, id := range unordered {
					out.Printf("%s: error: %v\n", id, result.Results[id].Err)
				}
			}

			if failed > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d fields failed", failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "YAML file of field values (required)")
	cmd.Flags().StringVar(&dbPath, "db", "", "record the run to this SQLite database")
	cmd.MarkFlagRequired("snapshot")
	return cmd
}

func renderResults(result *engine.BatchResult) map[string]any {
	fields := make(map[string]any, len(result.Results))
	for id, fr := range result.Results {
		if fr.Err != nil {
			fields[id] = map[string]any{"error": fr.Err.Error()}
		} else {
			fields[id] = map[string]any{
				"kind":  string(ir.KindOf(fr.Value)),
				"value": ir.Render(fr.Value),
			}
		}
	}
	return fields
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
