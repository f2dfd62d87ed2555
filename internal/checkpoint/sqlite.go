package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DatabaseName is the sqlite checkpoint journal inside the git directory
const DatabaseName = "restack.db"

// fixed width so timestamps sort lexically
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps every saved checkpoint in a journal table. The current
// checkpoint is the newest row that has not been cleared.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens or creates the journal at path.
// ":memory:" gives a private in-memory database for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS checkpoints (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			args BLOB NOT NULL,
			created_at TEXT NOT NULL,
			cleared_at TEXT
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_checkpoints_open
		ON checkpoints(cleared_at, created_at)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStoreInGitDir opens the journal stored in gitDir
func NewSQLiteStoreInGitDir(gitDir string) (*SQLiteStore, error) {
	return NewSQLiteStore(filepath.Join(gitDir, DatabaseName))
}

// Save implements Store. Any checkpoint still open is marked cleared first.
func (s *SQLiteStore) Save(ctx context.Context, args Args) (*Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	cp := newCheckpoint(args)
	rec, err := encode(cp)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(timeFormat)
	if _, err := tx.ExecContext(ctx, `UPDATE checkpoints SET cleared_at = ? WHERE cleared_at IS NULL`, now); err != nil {
		return nil, fmt.Errorf("supersede checkpoint: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO checkpoints (id, action, args, created_at)
		VALUES (?, ?, ?, ?)
	`, rec.ID, string(rec.Action), []byte(rec.Args), rec.CreatedAt.Format(timeFormat)); err != nil {
		return nil, fmt.Errorf("save checkpoint: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkpoint: %w", err)
	}
	return cp, nil
}

// MostRecent implements Store
func (s *SQLiteStore) MostRecent(ctx context.Context) (*Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	var (
		rec       record
		action    string
		args      []byte
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, action, args, created_at FROM checkpoints
		WHERE cleared_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&rec.ID, &action, &args, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}

	rec.Action = Action(action)
	rec.Args = args
	rec.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	return decode(&rec)
}

// Clear implements Store
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	now := time.Now().UTC().Format(timeFormat)
	if _, err := s.db.ExecContext(ctx, `UPDATE checkpoints SET cleared_at = ? WHERE cleared_at IS NULL`, now); err != nil {
		return fmt.Errorf("clear checkpoint: %w", err)
	}
	return nil
}

// HistoryEntry describes one journal row
type HistoryEntry struct {
	ID        string
	Action    Action
	CreatedAt time.Time
	ClearedAt *time.Time
}

// History returns up to limit journal entries, newest first
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, created_at, cleared_at FROM checkpoints
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			entry     HistoryEntry
			action    string
			createdAt string
			clearedAt sql.NullString
		)
		if err := rows.Scan(&entry.ID, &action, &createdAt, &clearedAt); err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		entry.Action = Action(action)
		entry.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		if clearedAt.Valid {
			t, _ := time.Parse(timeFormat, clearedAt.String)
			entry.ClearedAt = &t
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkpoints: %w", err)
	}
	return entries, nil
}

// Close implements Store. Closing twice is safe.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
