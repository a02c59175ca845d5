// Package store persists benchmark runs in a SQLite database so results
// can be compared across machines and over time.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	mdbench "github.com/tphakala/go-md-bench"
)

var (
	// ErrDatabase wraps failures of the underlying database.
	ErrDatabase = errors.New("result database error")

	// ErrRunNotFound is returned when a run id has no stored results.
	ErrRunNotFound = errors.New("run not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	started_ns    INTEGER NOT NULL,
	atoms         INTEGER NOT NULL,
	max_neighbors INTEGER NOT NULL,
	cutsq         REAL NOT NULL,
	domain        REAL NOT NULL,
	iterations    INTEGER NOT NULL,
	passes        INTEGER NOT NULL,
	seed          INTEGER NOT NULL,
	backend       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS outcomes (
	run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	test          TEXT NOT NULL,
	backend_info  TEXT NOT NULL,
	pairs         INTEGER NOT NULL,
	build_ns      INTEGER NOT NULL,
	transfer_ns   INTEGER NOT NULL,
	passes_run    INTEGER NOT NULL,
	error         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS results (
	run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	test       TEXT NOT NULL,
	attributes TEXT NOT NULL,
	unit       TEXT NOT NULL,
	trial      INTEGER NOT NULL,
	value      REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
`

// Run is one benchmark invocation.
type Run struct {
	ID       string
	Started  time.Time
	Config   mdbench.Config
	Outcomes []mdbench.Outcome
	Results  []mdbench.Result
}

// Store is a SQLite-backed run archive.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. Use ":memory:" for a
// throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrDatabase, path, err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: set pragma: %w", ErrDatabase, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: initialize schema: %w", ErrDatabase, err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores run and all of its outcomes and results in one
// transaction.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	defer tx.Rollback()

	cfg := &run.Config
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_ns, atoms, max_neighbors, cutsq, domain, iterations, passes, seed, backend)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Started.UnixNano(), cfg.Atoms(), cfg.MaxNeighbors,
		cfg.Cutsq, cfg.Domain, cfg.Iterations, cfg.Passes, int64(cfg.Seed), cfg.Backend)
	if err != nil {
		return fmt.Errorf("%w: insert run: %w", ErrDatabase, err)
	}

	for i := range run.Outcomes {
		o := &run.Outcomes[i]
		var msg string
		if o.Err != nil {
			msg = o.Err.Error()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO outcomes (run_id, test, backend_info, pairs, build_ns, transfer_ns, passes_run, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, o.TestName, o.BackendInfo, o.PairsWithinCutoff,
			o.BuildTime.Nanoseconds(), o.TransferTime.Nanoseconds(), o.PassesRun, msg)
		if err != nil {
			return fmt.Errorf("%w: insert outcome: %w", ErrDatabase, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, test, attributes, unit, trial, value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare: %w", ErrDatabase, err)
	}
	defer stmt.Close()

	for _, r := range run.Results {
		if _, err := stmt.ExecContext(ctx, run.ID, r.Test, r.Attributes, r.Unit, r.Trial, r.Value); err != nil {
			return fmt.Errorf("%w: insert result: %w", ErrDatabase, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrDatabase, err)
	}
	return nil
}

// Results returns the stored results of a run in insertion order.
func (s *Store) Results(ctx context.Context, runID string) ([]mdbench.Result, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT test, attributes, unit, trial, value FROM results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	defer rows.Close()

	var out []mdbench.Result
	for rows.Next() {
		var r mdbench.Result
		if err := rows.Scan(&r.Test, &r.Attributes, &r.Unit, &r.Trial, &r.Value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	return out, nil
}

// RunIDs returns the ids of all stored runs, oldest first.
func (s *Store) RunIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY started_ns, rowid`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	return ids, nil
}
