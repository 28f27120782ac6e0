// Package recents keeps a small SQLite-backed history of opened
// documents, used by quick-open to rank suggestions.
package recents

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recently opened document.
type Entry struct {
	Key      string
	OpenedAt time.Time
	Opens    int
}

// Store is a recent-documents history backed by a SQLite file.
type Store struct {
	db         *sql.DB
	maxEntries int
}

// Open opens (or creates) the recents database at path.
func Open(path string, maxEntries int) (*Store, error) {
	if maxEntries <= 0 {
		maxEntries = 100
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open recents database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS recents (
			key       TEXT PRIMARY KEY,
			opened_at INTEGER NOT NULL,
			opens     INTEGER NOT NULL DEFAULT 1
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create recents schema: %w", err)
	}

	return &Store{db: db, maxEntries: maxEntries}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Touch records that the document was opened now.
func (s *Store) Touch(key string) error {
	return s.TouchAt(key, time.Now())
}

// TouchAt records an open at an explicit time.
func (s *Store) TouchAt(key string, at time.Time) error {
	query := `
		INSERT INTO recents (key, opened_at, opens) VALUES (?, ?, 1)
		ON CONFLICT(key) DO UPDATE SET
			opened_at = excluded.opened_at,
			opens = opens + 1
	`
	if _, err := s.db.Exec(query, key, at.UnixMilli()); err != nil {
		return fmt.Errorf("cannot record open of %s: %w", key, err)
	}
	return s.prune()
}

// List returns up to limit entries, most recently opened first.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 || limit > s.maxEntries {
		limit = s.maxEntries
	}

	rows, err := s.db.Query(
		`SELECT key, opened_at, opens FROM recents ORDER BY opened_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot list recents: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var openedAt int64
		if err := rows.Scan(&e.Key, &openedAt, &e.Opens); err != nil {
			return nil, err
		}
		e.OpenedAt = time.UnixMilli(openedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Forget removes a document from the history, for when its file is gone.
func (s *Store) Forget(key string) error {
	_, err := s.db.Exec(`DELETE FROM recents WHERE key = ?`, key)
	return err
}

// prune drops the oldest entries beyond the configured cap.
func (s *Store) prune() error {
	query := `
		DELETE FROM recents WHERE key NOT IN (
			SELECT key FROM recents ORDER BY opened_at DESC LIMIT ?
		)
	`
	_, err := s.db.Exec(query, s.maxEntries)
	return err
}
