// Package mysqldialect is the MySQL-dialect Persistence Gateway backend
// (plain MySQL/MariaDB, or a Dolt sql-server speaking the MySQL wire
// protocol), driven by go-sql-driver/mysql. Unlike sqlite, this dialect
// supports a server-side hash-pushdown predicate (§4.7) and global temp
// tables that persist across transactions on the same session (§4.2).
package mysqldialect

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/scicat/catalog/internal/storage"
)

var tracer = otel.Tracer("github.com/scicat/catalog/storage/mysqldialect")

var storeMetrics struct {
	retryCount metric.Int64Counter
}

func init() {
	m := otel.Meter("github.com/scicat/catalog/storage/mysqldialect")
	storeMetrics.retryCount, _ = m.Int64Counter("catalog.db.retry_count",
		metric.WithDescription("transactions retried after a serialization conflict"),
		metric.WithUnit("{retry}"),
	)
}

// Store is a storage.Gateway backed by a MySQL-protocol server.
type Store struct {
	db *sql.DB
}

// Open connects to dsn (a go-sql-driver/mysql DSN) and applies the
// bootstrap schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysqldialect: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysqldialect: ping: %w", err)
	}
	for _, stmt := range splitStatements(schema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("mysqldialect: apply schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Dialect() storage.Dialect { return storage.DialectMySQL }

func (s *Store) Capabilities() storage.Capabilities {
	return storage.Capabilities{HashPushdown: true, GlobalTempTables: true}
}

func (s *Store) Begin(ctx context.Context) (storage.Transaction, error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("mysqldialect: begin: %w", err)
	}
	return &tx{sqlTx: sqlTx, db: s.db}, nil
}

const retryMaxElapsed = 10 * time.Second

func newRetryBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = retryMaxElapsed
	return bo
}

// RunInTransaction retries fn on classified serialization conflicts
// (lock wait timeout, deadlock) with exponential backoff; any other
// error rolls back and returns immediately. Contrast the sqlite
// backend, which runs fn exactly once.
func (s *Store) RunInTransaction(ctx context.Context, fn func(storage.Transaction) error) error {
	ctx, span := tracer.Start(ctx, "mysqldialect.run_in_transaction", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		t, err := s.Begin(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := fn(t); err != nil {
			_ = t.Rollback()
			if isSerializationConflict(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if err := t.Commit(); err != nil {
			if isSerializationConflict(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}, backoff.WithContext(newRetryBackoff(), ctx))

	if attempts > 1 {
		storeMetrics.retryCount.Add(ctx, int64(attempts-1))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) spanAttrs() []attribute.KeyValue {
	return []attribute.KeyValue{attribute.String("db.system", "mysql")}
}
