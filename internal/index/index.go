package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// FileName is the ledger database inside the state directory.
const FileName = "concepts.db"

// Fixed-width UTC timestamps so created_at sorts as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Status is the outcome recorded for one concept run.
type Status string

const (
	StatusCreated Status = "created"
	StatusFailed  Status = "failed"
	StatusRebuilt Status = "rebuilt" // recovered from an existing note
)

// Entry is one concept run.
type Entry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	NotePath    string    `json:"note_path"` // relative to vault root
	PromptLabel string    `json:"prompt_label"`
	Model       string    `json:"model,omitempty"`
	Status      Status    `json:"status"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Index is the concept ledger, stored in SQLite.
type Index struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the ledger in stateDir.
func Open(stateDir string) (*Index, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	path := filepath.Join(stateDir, FileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	// One writer; sqlite serializes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	idx := &Index{db: db, path: path}
	if err := idx.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *Index) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS concepts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		note_path TEXT NOT NULL,
		prompt_label TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_concepts_note_path ON concepts(note_path);
	CREATE INDEX IF NOT EXISTS idx_concepts_created_at ON concepts(created_at);`

	if _, err := idx.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (idx *Index) Path() string {
	return idx.path
}

// Close closes the database.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Add records an entry. A missing ID or CreatedAt is filled in; the
// stored entry is returned.
func (idx *Index) Add(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	_, err := idx.db.ExecContext(ctx,
		`INSERT INTO concepts (id, title, note_path, prompt_label, model, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.NotePath, e.PromptLabel, e.Model, string(e.Status), e.Error,
		e.CreatedAt.Format(timeFormat))
	if err != nil {
		return e, fmt.Errorf("insert concept: %w", err)
	}
	return e, nil
}

// List returns up to limit entries, newest first. limit <= 0 means all.
func (idx *Index) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, title, note_path, prompt_label, model, status, error, created_at
		FROM concepts ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := idx.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query concepts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status, created string
		if err := rows.Scan(&e.ID, &e.Title, &e.NotePath, &e.PromptLabel, &e.Model, &status, &e.Error, &created); err != nil {
			return nil, fmt.Errorf("scan concept: %w", err)
		}
		e.Status = Status(status)
		e.CreatedAt, _ = time.Parse(timeFormat, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// HasNote reports whether a successful (created or rebuilt) entry exists
// for notePath.
func (idx *Index) HasNote(ctx context.Context, notePath string) (bool, error) {
	var n int
	err := idx.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM concepts WHERE note_path = ? AND status IN (?, ?)`,
		notePath, string(StatusCreated), string(StatusRebuilt)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query note: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of entries.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := idx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM concepts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count concepts: %w", err)
	}
	return n, nil
}
