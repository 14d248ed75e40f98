// CLAUDE:SUMMARY SQLite handle for notebook: opens with production pragmas, applies the schema, retries busy transactions.
// Package store is the SQLite persistence of notes, tags and per-note
// preferences. It implements notes.Repository.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the notebook database handle.
type Store struct {
	DB *sql.DB
}

var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if err := prepare(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{DB: db}, nil
}

// OpenMemory opens an in-memory store for tests. All queries share one
// connection, since every ":memory:" connection is a separate database.
func OpenMemory(t testing.TB) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("store.OpenMemory: %v", err)
	}
	s.DB.SetMaxOpenConns(1)
	t.Cleanup(func() { s.Close() })
	return s
}

// dsn repeats the per-connection pragmas in the URI so that every pooled
// connection enforces foreign keys, not only the one prepare runs on.
func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)"
}

func prepare(db *sql.DB) error {
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("store: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("store: schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("store: ping: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

const maxRetries = 3

// IsBusy reports whether err is an SQLite lock contention error.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// runTx runs fn in a transaction, retrying up to 3 times with 100/200/300 ms
// backoff while the database is busy.
func (s *Store) runTx(ctx context.Context, fn func(*sql.Tx) error) error {
	var err error
	for i := range maxRetries {
		if err = s.txOnce(ctx, fn); err == nil || !IsBusy(err) {
			return err
		}
		t := time.NewTimer(time.Duration(100*(i+1)) * time.Millisecond)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("store: retry: %w", ctx.Err())
		case <-t.C:
		}
	}
	return err
}

func (s *Store) txOnce(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}
