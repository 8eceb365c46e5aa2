package store

import (
	"database/sql"
	"fmt"
)

// RunSummary describes one recorded run.
type RunSummary struct {
	RunToken   string
	Entity     string
	CreatedAt  string
	FieldCount int
}

// FieldRow is one stored field outcome.
type FieldRow struct {
	FieldID  string
	Kind     string // value kind, or "error"
	Rendered string
}

// ListRuns returns recorded runs for an entity, newest first.
func (s *Store) ListRuns(entity string) ([]RunSummary, error) {
	rows, err := s.db.Query(
		"SELECT run_token, entity, created_at, field_count FROM runs WHERE entity = ? ORDER BY run_token DESC",
		entity,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunToken, &r.Entity, &r.CreatedAt, &r.FieldCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the stored field outcomes of one run in evaluation
// order. Returns sql.ErrNoRows if the token is unknown.
func (s *Store) GetRun(runToken string) ([]FieldRow, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM runs WHERE run_token = ?", runToken).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("lookup run: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT field_id, kind, rendered FROM field_values WHERE run_token = ? ORDER BY eval_order",
		runToken,
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var fields []FieldRow
	for rows.Next() {
		var f FieldRow
		if err := rows.Scan(&f.FieldID, &f.Kind, &f.Rendered); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}
