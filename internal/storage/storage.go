// Package storage persists client-local session state in a small sqlite
// key/value table, the stand-in for the browser's localStorage.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"
)

// Fixed keys for persisted session state.
const (
	KeyAuthToken = "auth_token"
	KeyUser      = "user"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store is a key/value store backed by a sqlite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path and applies the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), string(schemaSQL)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the value for key. ok is false if the key is absent.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set writes key to value, replacing any existing entry.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
