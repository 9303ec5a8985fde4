// Package history persists executed statements in a SQLite metastore.
// The sync engine never touches this store; it only ever receives the
// finished SQL string after execution.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/robfig/cron/v3"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Entry is one executed statement.
type Entry struct {
	ID         string    `json:"id"`
	SQL        string    `json:"sql"`
	Dialect    string    `json:"dialect"`
	ExecutedAt time.Time `json:"executedAt"`
	DurationMs int64     `json:"durationMs"`
	RowCount   int64     `json:"rowCount"`
	Succeeded  bool      `json:"succeeded"`
	ErrorMsg   string    `json:"error,omitempty"`
}

// Store is the SQLite-backed history store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the history store at path and runs
// pending migrations. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Record stores an entry. A zero ID or timestamp is filled in.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ExecutedAt.IsZero() {
		e.ExecutedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_history (id, sql_text, dialect, executed_at, duration_ms, row_count, succeeded, error_msg)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SQL, e.Dialect, e.ExecutedAt.Unix(), e.DurationMs, e.RowCount, boolToInt(e.Succeeded), e.ErrorMsg)
	if err != nil {
		return Entry{}, fmt.Errorf("record history: %w", err)
	}
	return e, nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sql_text, dialect, executed_at, duration_ms, row_count, succeeded, error_msg
		 FROM query_history ORDER BY executed_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			executed  int64
			succeeded int
		)
		if err := rows.Scan(&e.ID, &e.SQL, &e.Dialect, &executed, &e.DurationMs, &e.RowCount, &succeeded, &e.ErrorMsg); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.ExecutedAt = time.Unix(executed, 0).UTC()
		e.Succeeded = succeeded != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than the retention window and returns how
// many were removed.
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Unix()
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM query_history WHERE executed_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return res.RowsAffected()
}

// ScheduleRetention registers a periodic prune on the given cron runner.
func (s *Store) ScheduleRetention(c *cron.Cron, spec string, retention time.Duration, logger *slog.Logger) error {
	_, err := c.AddFunc(spec, func() {
		n, err := s.Prune(context.Background(), retention)
		if err != nil {
			logger.Error("history retention sweep failed", "error", err)
			return
		}
		if n > 0 {
			logger.Info("history retention sweep", "removed", n)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule retention sweep: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
