// Package journal persists evaluated calculator commands in a SQL database.
//
// SQLite (pure Go, no CGO) is the default backend; PostgreSQL and MySQL are
// supported through the same schema with dialect-specific DDL.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sambeau/cplx/pkg/logging"
)

// DefaultRecentLimit is used by Recent when no positive limit is given.
const DefaultRecentLimit = 100

const timeLayout = "2006-01-02 15:04:05.000000"

// Entry is one evaluated command.
type Entry struct {
	ID     int64     `json:"id"`
	Time   time.Time `json:"time"`
	Input  string    `json:"input"`
	Output string    `json:"output"` // formatted result, or the error message
	Failed bool      `json:"failed"`
}

// Config selects and sizes the backing database.
type Config struct {
	Driver     string // sqlite (default), postgres or mysql
	DSN        string // file path for sqlite, connection string otherwise
	MaxEntries int    // oldest entries beyond this are dropped; 0 keeps all
}

// Journal is a handle on the journal table. It is safe for concurrent use.
type Journal struct {
	mu         sync.RWMutex
	db         *sql.DB
	dialect    dialect
	maxEntries int
	log        *logging.Leveled
}

// Open connects to the configured database and creates the schema if needed.
func Open(ctx context.Context, cfg Config, log *logging.Leveled) (*Journal, error) {
	if log == nil {
		log = logging.Discard()
	}

	d, err := lookupDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, errors.New("journal dsn is required")
	}
	if cfg.MaxEntries < 0 {
		return nil, fmt.Errorf("journal max entries must not be negative, got %d", cfg.MaxEntries)
	}

	dsn := cfg.DSN
	if d.name == "sqlite" {
		dsn, err = sqliteDSN(cfg.DSN)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(d.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to journal database: %w", err)
	}

	if d.name == "sqlite" {
		// SQLite allows one writer at a time.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	j := &Journal{
		db:         db,
		dialect:    d,
		maxEntries: cfg.MaxEntries,
		log:        log,
	}

	if err := j.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}

	log.Debug("journal: opened", d.name, "database")
	return j, nil
}

// sqliteDSN creates the parent directory of path and adds the pragmas
// used for every connection.
func sqliteDSN(path string) (string, error) {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating journal directory: %w", err)
		}
	}
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
}

func (j *Journal) createSchema(ctx context.Context) error {
	for _, stmt := range j.dialect.schema {
		if _, err := j.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Driver returns the canonical name of the backing database.
func (j *Journal) Driver() string {
	return j.dialect.name
}

// Record appends e. A zero Time is set to now. When MaxEntries is set the
// oldest entries beyond it are removed; a failed trim is logged, not returned.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	_, err := j.db.ExecContext(ctx, j.dialect.rebind(`
		INSERT INTO journal (created_at, input, output, failed)
		VALUES (?, ?, ?, ?)
	`), e.Time.UTC().Format(timeLayout), e.Input, e.Output, e.Failed)
	if err != nil {
		return fmt.Errorf("recording journal entry: %w", err)
	}

	if err := j.trim(ctx); err != nil {
		j.log.Warn("journal trim failed:", err)
	}
	return nil
}

// trim keeps the newest maxEntries rows. Must be called with lock held.
func (j *Journal) trim(ctx context.Context) error {
	if j.maxEntries <= 0 {
		return nil
	}

	// The id of the oldest row to keep; no row means nothing to trim.
	var cutoff int64
	err := j.db.QueryRowContext(ctx, j.dialect.rebind(`
		SELECT id FROM journal ORDER BY id DESC LIMIT 1 OFFSET ?
	`), j.maxEntries-1).Scan(&cutoff)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	res, err := j.db.ExecContext(ctx, j.dialect.rebind(`DELETE FROM journal WHERE id < ?`), cutoff)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		j.log.Debug("journal: trimmed", n, "entries")
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := j.db.QueryContext(ctx, j.dialect.rebind(`
		SELECT id, created_at, input, output, failed
		FROM journal
		ORDER BY id DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.Input, &e.Output, &e.Failed); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		e.Time = parseTimestamp(ts)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// parseTimestamp accepts the layouts the drivers hand back for created_at.
func parseTimestamp(ts string) time.Time {
	for _, layout := range []string{
		timeLayout,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		time.RFC3339Nano,
	} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Count returns the number of entries.
func (j *Journal) Count(ctx context.Context) (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var count int
	err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM journal").Scan(&count)
	return count, err
}

// Clear removes every entry.
func (j *Journal) Clear(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.ExecContext(ctx, "DELETE FROM journal")
	return err
}

// Close closes the database connection.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}
