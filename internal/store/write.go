package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/fieldcalc/internal/engine"
	"github.com/roach88/fieldcalc/internal/ir"
)

// NewRunToken generates a time-sortable UUIDv7 token identifying one
// recorded run. UUIDv7 embeds a timestamp in the most significant bits,
// so run tokens sort by creation time.
func NewRunToken() string {
	return uuid.Must(uuid.NewV7()).String()
}

// RecordRun writes one batch result under the given run token.
// Pass a token from NewRunToken, or a fixed token in tests for
// deterministic rows.
//
// Values are stored as (kind, rendered-text) pairs using the canonical
// rendering, so history rows are stable across runs with equal inputs.
// Failed fields are stored with kind "error" and the error message.
func (s *Store) RecordRun(runToken, entity string, at time.Time, result *engine.BatchResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO runs (run_token, entity, created_at, field_count) VALUES (?, ?, ?, ?)",
		runToken, entity, at.UTC().Format(time.RFC3339), len(result.Results),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	// Ordered fields first, then parse failures (absent from Order).
	position := make(map[string]int, len(result.Order))
	for i, id := range result.Order {
		position[id] = i
	}
	next := len(result.Order)

	for id, fr := range result.Results {
		ord, ok := position[id]
		if !ok {
			ord = next
			next++
		}
		kind := "error"
		rendered := ""
		if fr.Err != nil {
			rendered = fr.Err.Error()
		} else {
			kind = string(ir.KindOf(fr.Value))
			rendered = ir.Render(fr.Value)
		}
		_, err = tx.Exec(
			"INSERT INTO field_values (run_token, field_id, eval_order, kind, rendered) VALUES (?, ?, ?, ?, ?)",
			runToken, id, ord, kind, rendered,
		)
		if err != nil {
			return fmt.Errorf("insert field %s: %w", id, err)
		}
	}

	return tx.Commit()
}
