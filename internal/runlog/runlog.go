// Package runlog records per-table ETL run history in a local SQLite
// database.
package runlog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Entry is one recorded table run.
type Entry struct {
	ID          string     `json:"id"`
	Table       string     `json:"table"`
	Status      string     `json:"status"`
	Rows        int64      `json:"rows"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Log provides read/write access to the run history.
type Log struct {
	db *sql.DB
}

// Open opens (or creates) the run log database at path and configures WAL
// mode.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
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
CREATE TABLE IF NOT EXISTS etl_runs (
	id           TEXT PRIMARY KEY,
	table_name   TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'running',
	rows         INTEGER NOT NULL DEFAULT 0,
	error        TEXT,
	started_at   DATETIME NOT NULL,
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_etl_runs_table ON etl_runs(table_name);
CREATE INDEX IF NOT EXISTS idx_etl_runs_started_at ON etl_runs(started_at);
`

// Migrate creates the schema if it does not exist yet.
func (l *Log) Migrate(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "runlog: migrate")
}

// Close releases the underlying database handle.
func (l *Log) Close() error {
	return l.db.Close()
}

// Start records the beginning of a table run and returns its ID.
func (l *Log) Start(ctx context.Context, table string) (string, error) {
	id := uuid.New().String()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO etl_runs (id, table_name, status, started_at) VALUES (?, ?, 'running', ?)`,
		id, table, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrapf(err, "runlog: start run for %s", table)
	}
	return id, nil
}

// Complete marks a table run as successfully completed with its row count.
func (l *Log) Complete(ctx context.Context, runID string, rows int64) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE etl_runs SET status = 'complete', rows = ?, completed_at = ? WHERE id = ?`,
		rows, time.Now().UTC(), runID,
	)
	return eris.Wrapf(err, "runlog: complete run %s", runID)
}

// Fail marks a table run as failed with an error message.
func (l *Log) Fail(ctx context.Context, runID string, errMsg string) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE etl_runs SET status = 'failed', error = ?, completed_at = ? WHERE id = ?`,
		errMsg, time.Now().UTC(), runID,
	)
	return eris.Wrapf(err, "runlog: fail run %s", runID)
}

// List returns the most recent runs, newest first.
func (l *Log) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, table_name, status, rows, error, started_at, completed_at
		 FROM etl_runs ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: list")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var errStr sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.Table, &e.Status, &e.Rows, &errStr, &e.StartedAt, &completedAt); err != nil {
			return nil, eris.Wrap(err, "runlog: scan entry")
		}
		if errStr.Valid {
			e.Error = errStr.String
		}
		if completedAt.Valid {
			t := completedAt.Time
			e.CompletedAt = &t
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "runlog: iterate")
}
