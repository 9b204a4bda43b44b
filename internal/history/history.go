// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history journals completed extraction runs in a SQLite database
// so past runs can be reviewed with the history command.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/filedump/pkg/types"
)

const dbFile = "history.db"

// Run is one journal entry: the arguments of an extraction run and its
// outcome counts.
type Run struct {
	ID          int64
	StartedAt   time.Time
	Project     string // saved project name, empty for direct runs
	Source      string
	Destination string
	Filter      string
	Flatten     bool
	Copied      int
	Filtered    int
	Failed      int
	Collisions  int
	TotalBytes  int64
}

// Store manages the history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the history database at cfg.Dir/history.db,
// creating the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		project TEXT,
		source TEXT NOT NULL,
		destination TEXT NOT NULL,
		filter TEXT,
		flatten INTEGER NOT NULL,
		copied INTEGER NOT NULL,
		filtered INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		collisions INTEGER NOT NULL,
		total_bytes INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record appends one run to the journal.
func (s *Store) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, project, source, destination, filter, flatten,
			copied, filtered, failed, collisions, total_bytes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Project, run.Source, run.Destination, run.Filter, boolToInt(run.Flatten),
		run.Copied, run.Filtered, run.Failed, run.Collisions, run.TotalBytes,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first. A non-positive limit
// falls back to the configured default.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, project, source, destination, filter, flatten,
			copied, filtered, failed, collisions, total_bytes
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			startedAt string
			flatten   int
		)
		if err := rows.Scan(&run.ID, &startedAt, &run.Project, &run.Source,
			&run.Destination, &run.Filter, &flatten,
			&run.Copied, &run.Filtered, &run.Failed, &run.Collisions, &run.TotalBytes); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		run.Flatten = flatten != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
