// Package state persists per-document build state for incremental rebuilds.
package state

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
)

// Entry is the recorded build state for one source document.
type Entry struct {
	Source      string
	ContentHash string
	OutputPath  string
	BuiltAt     time.Time
}

// Store is a SQLite-backed build-state database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens a build-state database.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, pperrors.StateError("create state directory", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, pperrors.StateError("open database", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, pperrors.StateError("initialize schema", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		source TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		output_path TEXT NOT NULL,
		built_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_output_path ON documents(output_path);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Lookup returns the recorded entry for a source, if any.
func (s *Store) Lookup(ctx context.Context, source string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT source, content_hash, output_path, built_at FROM documents WHERE source = ?", source)

	var e Entry
	var builtAt int64
	if err := row.Scan(&e.Source, &e.ContentHash, &e.OutputPath, &builtAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, pperrors.StateError("lookup", err)
	}
	e.BuiltAt = time.Unix(builtAt, 0)
	return e, true, nil
}

// Record upserts the entry for a source document.
func (s *Store) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	builtAt := e.BuiltAt
	if builtAt.IsZero() {
		builtAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (source, content_hash, output_path, built_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(source) DO UPDATE SET content_hash=excluded.content_hash,
		 output_path=excluded.output_path, built_at=excluded.built_at`,
		e.Source, e.ContentHash, e.OutputPath, builtAt.Unix())
	if err != nil {
		return pperrors.StateError("record", err)
	}
	return nil
}

// Forget drops the entry for a source document.
func (s *Store) Forget(ctx context.Context, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE source = ?", source); err != nil {
		return pperrors.StateError("forget", err)
	}
	return nil
}

// Reset clears all recorded state (forced full rebuild).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return pperrors.StateError("reset", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Hash computes the content hash used for change detection.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
