package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS templates (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	markup   TEXT    NOT NULL,
	saved_at INTEGER NOT NULL DEFAULT (unixepoch())
);`

// SQLiteStore keeps every saved version of the markup in a SQLite
// database. Load returns the latest version.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if necessary creates) a SQLite store.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	tracer().Infof("opened SQLite store %s", path)
	return &SQLiteStore{db: db}, nil
}

// Load returns the markup saved last.
func (s *SQLiteStore) Load(ctx context.Context) (string, error) {
	var markup string
	err := s.db.QueryRowContext(ctx,
		`SELECT markup FROM templates ORDER BY id DESC LIMIT 1`).Scan(&markup)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	return markup, nil
}

// Save stores a new version of the markup.
func (s *SQLiteStore) Save(ctx context.Context, markup string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO templates (markup) VALUES (?)`, markup)
	if err != nil {
		return fmt.Errorf("saving template: %w", err)
	}
	tracer().Infof("saved %d bytes to SQLite store", len(markup))
	return nil
}

// Versions returns the number of saved versions.
func (s *SQLiteStore) Versions(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
