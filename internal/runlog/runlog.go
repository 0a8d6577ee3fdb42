// Package runlog records Monte Carlo evaluation runs in a local SQLite
// database so expensive datasets stay discoverable between sessions.
package runlog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
)

// Log stores run records using modernc.org/sqlite.
type Log struct {
	db *sql.DB
}

// Open opens (or creates) the run log database at dsn and configures WAL
// mode.
func Open(dsn string) (*Log, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "runlog: exec %s", pragma)
		}
	}
	return &Log{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	samples     INTEGER NOT NULL,
	parameters  INTEGER NOT NULL,
	dataset     TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	error       TEXT NOT NULL DEFAULT '',
	cost_min    REAL NOT NULL DEFAULT 0,
	cost_max    REAL NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

// Migrate creates the schema if needed.
func (l *Log) Migrate(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "runlog: migrate")
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Create inserts a new running record and returns it with its generated id.
func (l *Log) Create(ctx context.Context, samples, parameters int, dataset string) (*model.Run, error) {
	run := &model.Run{
		ID:         uuid.New().String(),
		Samples:    samples,
		Parameters: parameters,
		Dataset:    dataset,
		Status:     model.RunStatusRunning,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO runs (id, samples, parameters, dataset, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Samples, run.Parameters, run.Dataset, string(run.Status), run.CreatedAt, run.UpdatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: insert run")
	}
	return run, nil
}

// Complete marks the run complete and records its cost range and duration.
func (l *Log) Complete(ctx context.Context, id string, costMin, costMax float64, duration time.Duration) error {
	_, err := l.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, cost_min = ?, cost_max = ?, duration_ms = ?, updated_at = ?
		WHERE id = ?
	`, string(model.RunStatusComplete), costMin, costMax, duration.Milliseconds(), time.Now().UTC(), id)
	return eris.Wrap(err, "runlog: complete run")
}

// Fail marks the run failed with an error message.
func (l *Log) Fail(ctx context.Context, id, msg string) error {
	_, err := l.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, string(model.RunStatusFailed), msg, time.Now().UTC(), id)
	return eris.Wrap(err, "runlog: fail run")
}

// List returns the most recent runs, newest first.
func (l *Log) List(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, samples, parameters, dataset, status, error,
		       cost_min, cost_max, duration_ms, created_at, updated_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var status string
		var durationMs int64
		if err := rows.Scan(&r.ID, &r.Samples, &r.Parameters, &r.Dataset, &status, &r.Error,
			&r.CostMin, &r.CostMax, &durationMs, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "runlog: scan run")
		}
		r.Status = model.RunStatus(status)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "runlog: iterate runs")
}
