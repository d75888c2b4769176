package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/pressflag/internal/model"
)

// timeLayout is fixed-width so stored timestamps sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrRunNotFound is returned when a run id is unknown
var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	source        TEXT NOT NULL,
	sheet_name    TEXT NOT NULL,
	analyzed_at   TEXT NOT NULL,
	sheet_date    TEXT NOT NULL,
	machine_type  TEXT NOT NULL,
	operator      TEXT NOT NULL,
	supervisor    TEXT NOT NULL,
	records       INTEGER NOT NULL,
	rejected_rows INTEGER NOT NULL,
	flagged       INTEGER NOT NULL,
	warnings      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS flagged_rows (
	run_id          TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	position        INTEGER NOT NULL,
	die_number      INTEGER NOT NULL,
	die_name        TEXT NOT NULL,
	flag_reason     TEXT NOT NULL,
	remark          TEXT NOT NULL,
	department_name TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);
CREATE INDEX IF NOT EXISTS idx_runs_analyzed_at ON runs(analyzed_at);
CREATE INDEX IF NOT EXISTS idx_flagged_die ON flagged_rows(die_number);
`

// Store records analysis runs in a sqlite database
type Store struct {
	db *sql.DB
}

// Run is a summary of one recorded analysis
type Run struct {
	RunID        string
	Source       string
	SheetName    string
	AnalyzedAt   time.Time
	Meta         model.BatchMeta
	Records      int
	RejectedRows int
	Flagged      int
	Warnings     int
}

// Open opens (and creates if needed) a history database
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save records a run and its flagged rows
func (s *Store) Save(ctx context.Context, result *model.Result) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, source, sheet_name, analyzed_at, sheet_date, machine_type,
			operator, supervisor, records, rejected_rows, flagged, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, result.Source, result.SheetName, result.AnalyzedAt.UTC().Format(timeLayout),
		result.Meta.Date, result.Meta.MachineType, result.Meta.Operator, result.Meta.Supervisor,
		result.Diagnostics.Records, result.Diagnostics.RejectedRows, len(result.Flagged), len(result.Warnings))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO flagged_rows (run_id, position, die_number, die_name, flag_reason, remark, department_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare flagged insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range result.Flagged {
		if _, err = stmt.ExecContext(ctx, result.RunID, i, row.DieNumber, row.DieName,
			row.FlagReason, row.Remark, row.DepartmentName); err != nil {
			return fmt.Errorf("insert flagged row: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, source, sheet_name, analyzed_at, sheet_date, machine_type, operator,
			supervisor, records, rejected_rows, flagged, warnings
		FROM runs ORDER BY analyzed_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get returns one run and its flagged rows
func (s *Store) Get(ctx context.Context, runID string) (*Run, []model.FlaggedRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, source, sheet_name, analyzed_at, sheet_date, machine_type, operator,
			supervisor, records, rejected_rows, flagged, warnings
		FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT die_number, die_name, flag_reason, remark, department_name
		FROM flagged_rows WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("query flagged rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var flagged []model.FlaggedRow
	for rows.Next() {
		f := model.FlaggedRow{
			Date:        run.Meta.Date,
			MachineType: run.Meta.MachineType,
			Operator:    run.Meta.Operator,
			Supervisor:  run.Meta.Supervisor,
		}
		if err := rows.Scan(&f.DieNumber, &f.DieName, &f.FlagReason, &f.Remark, &f.DepartmentName); err != nil {
			return nil, nil, fmt.Errorf("scan flagged row: %w", err)
		}
		flagged = append(flagged, f)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate flagged rows: %w", err)
	}

	return &run, flagged, nil
}

// DieHistory counts the recorded flagged rows of one die across all runs
func (s *Store) DieHistory(ctx context.Context, dieNumber int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM flagged_rows WHERE die_number = ?`, dieNumber).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count die history: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var analyzedAt string
	err := sc.Scan(&run.RunID, &run.Source, &run.SheetName, &analyzedAt,
		&run.Meta.Date, &run.Meta.MachineType, &run.Meta.Operator, &run.Meta.Supervisor,
		&run.Records, &run.RejectedRows, &run.Flagged, &run.Warnings)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("scan run: %w", err)
	}
	if t, err := time.Parse(timeLayout, analyzedAt); err == nil {
		run.AnalyzedAt = t
	}
	return run, nil
}
