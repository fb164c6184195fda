// Package sqlite is the SQLite-dialect Persistence Gateway backend,
// driven by the pure-Go ncruces/go-sqlite3 driver. SQLite has no
// server-side/global temp-table semantics and no hash-pushdown index
// support, so this backend represents the "does not" side of every
// dialect fork named in §4.1/§4.2/§4.7.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/scicat/catalog/internal/storage"
)

// Store is a storage.Gateway backed by a single SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (and, if needed, creates) a SQLite-backed catalog at path.
// Use ":memory:" for an ephemeral in-process database, which is the
// normal mode for unit tests.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// A single DID graph is mutated by many short serialized
	// transactions; SQLite only supports one writer, so cap the pool at
	// one connection to avoid SQLITE_BUSY storms under concurrent tests.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Dialect() storage.Dialect { return storage.DialectSQLite }

func (s *Store) Capabilities() storage.Capabilities {
	return storage.Capabilities{HashPushdown: false, GlobalTempTables: false}
}

func (s *Store) Begin(ctx context.Context) (storage.Transaction, error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	return &tx{sqlTx: sqlTx, tempSeq: new(int)}, nil
}

// RunInTransaction runs fn exactly once; SQLite's busy-timeout handles
// transient writer contention at the driver level, so there is no
// serialization-conflict retry loop here (contrast mysqldialect, which
// retries on the server's optimistic-concurrency errors).
func (s *Store) RunInTransaction(ctx context.Context, fn func(storage.Transaction) error) error {
	t, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		_ = t.Rollback()
		return err
	}
	return t.Commit()
}

func (s *Store) Close() error { return s.db.Close() }
