package state

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/vtool/pkg/core"
)

// ---------- Labels and findings ----------

// SaveReport stores one label verdict and its diagnostics in a single
// transaction. Saving the same file twice in a run replaces the earlier record.
func (s *SQLiteStore) SaveReport(ctx context.Context, rec LabelRecord, diags core.Diagnostics) (err error) {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM findings WHERE run_id = ? AND file = ?`, rec.RunID, rec.File); err != nil {
		return fmt.Errorf("failed to clear findings: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO labels (run_id, file, label_type, valid, truncated) VALUES (?, ?, ?, ?, ?)`,
		rec.RunID, rec.File, rec.LabelType, rec.Valid, rec.Truncated,
	); err != nil {
		return fmt.Errorf("failed to save label: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO findings (run_id, file, severity, code, message, context, line) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare finding insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, d := range diags {
		file := d.File
		if file == "" {
			file = rec.File
		}
		if _, err = stmt.ExecContext(ctx, rec.RunID, file, int(d.Severity), d.Code, d.Message, d.Context, d.Line); err != nil {
			return fmt.Errorf("failed to save finding: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}
	s.logger.Debug("report saved", slog.String("run", rec.RunID), slog.String("file", rec.File), slog.Int("findings", len(diags)))
	return nil
}

// Labels returns the label verdicts of a run ordered by file.
func (s *SQLiteStore) Labels(ctx context.Context, runID string) ([]LabelRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, file, label_type, valid, truncated FROM labels WHERE run_id = ? ORDER BY file`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []LabelRecord
	for rows.Next() {
		var rec LabelRecord
		if err := rows.Scan(&rec.RunID, &rec.File, &rec.LabelType, &rec.Valid, &rec.Truncated); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Findings returns the stored diagnostics of a run at or above threshold,
// ordered by file, line and insertion.
func (s *SQLiteStore) Findings(ctx context.Context, runID string, threshold core.Severity) ([]Finding, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, file, severity, code, message, context, line FROM findings
		 WHERE run_id = ? AND severity <= ?
		 ORDER BY file, line, id`, runID, int(threshold))
	if err != nil {
		return nil, fmt.Errorf("failed to list findings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Finding
	for rows.Next() {
		var (
			f   Finding
			sev int
		)
		if err := rows.Scan(&f.RunID, &f.File, &sev, &f.Code, &f.Message, &f.Context, &f.Line); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		f.Severity = core.Severity(sev)
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteRun removes a run with its labels and findings.
func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}
