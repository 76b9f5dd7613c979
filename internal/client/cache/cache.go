// Package cache keeps a local copy of every document the client saves or
// loads, so listing and loading keep working when the server is unreachable.
package cache

import (
	"context"
	"database/sql"
	"time"
)

// Entry is one locally cached document.
type Entry struct {
	Name    string
	Payload []byte
	SavedAt time.Time
}

// Repository is the local document cache.
type Repository interface {
	Put(ctx context.Context, name string, payload []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}

// Open opens (creating if needed) the cache database at path and ensures
// the schema exists. Use ":memory:" for an ephemeral cache.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
  name     TEXT PRIMARY KEY,
  payload  BLOB NOT NULL,
  saved_at TIMESTAMP NOT NULL
);`
