// Package index keeps a SQLite catalog of written corpus entries so reports
// and status checks do not have to re-walk and re-hash the output tree.
package index

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite corpus index database.
type Store struct {
	db *sql.DB
}

// Entry is one recorded corpus file.
type Entry struct {
	RelPath   string
	Category  string
	SizeBytes int64
	Blake3Hex string
	WrittenAt string
}

// CategoryStat aggregates entries per category.
type CategoryStat struct {
	Category string `json:"category"`
	Files    int    `json:"files"`
	Bytes    int64  `json:"bytes"`
}

// Open opens or creates the index database at the given path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("index: db path required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.applyPragmas(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applyPragmas(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA synchronous=FULL"); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		return err
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	applied_at TEXT NOT NULL
)`); err != nil {
		return err
	}

	var version int
	if err = tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		return err
	}
	if version < 1 {
		if _, err = tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS entries (
	rel_path TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	size_bytes INTEGER NOT NULL,
	blake3_hex TEXT NOT NULL,
	written_at TEXT NOT NULL
)`); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `
CREATE INDEX IF NOT EXISTS idx_entries_category ON entries(category)`); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, "INSERT INTO schema_migrations(version, applied_at) VALUES(1, ?)",
			time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecordEntry upserts a corpus entry. Re-running the assembler rewrites the
// same rows, so the index stays consistent with the tree.
func (s *Store) RecordEntry(ctx context.Context, relPath, category string, size int64, blake3Hex string) error {
	if relPath == "" || category == "" {
		return errors.New("index: rel path and category required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO entries(rel_path, category, size_bytes, blake3_hex, written_at)
VALUES(?, ?, ?, ?, ?)
ON CONFLICT(rel_path) DO UPDATE SET
	category=excluded.category,
	size_bytes=excluded.size_bytes,
	blake3_hex=excluded.blake3_hex,
	written_at=excluded.written_at`,
		relPath, category, size, blake3Hex, now)
	return err
}

// GetEntry returns one entry by relative path.
func (s *Store) GetEntry(ctx context.Context, relPath string) (Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx, `
SELECT rel_path, category, size_bytes, blake3_hex, written_at
FROM entries WHERE rel_path=?`, relPath).
		Scan(&e.RelPath, &e.Category, &e.SizeBytes, &e.Blake3Hex, &e.WrittenAt)
	return e, err
}

// CategoryStats returns per-category file counts and byte totals, ordered by
// category name.
func (s *Store) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT category, COUNT(*), COALESCE(SUM(size_bytes), 0)
FROM entries GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CategoryStat
	for rows.Next() {
		var st CategoryStat
		if err := rows.Scan(&st.Category, &st.Files, &st.Bytes); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Totals returns the overall file count and byte total.
func (s *Store) Totals(ctx context.Context) (int, int64, error) {
	var files int
	var total int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM entries").Scan(&files, &total)
	return files, total, err
}
