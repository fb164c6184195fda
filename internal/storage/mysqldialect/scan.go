package mysqldialect

import (
	"context"
	"time"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// ListExpired pushes the worker partition down into the query as
// MOD(CONV(MD5(name),16,10), total) = worker, matching the client-side
// fallback idgen.ShardIndex computes for dialects without pushdown
// support (§4.7).
func (t *tx) ListExpired(ctx context.Context, before time.Time, excludeLocked func(types.DIDKey) bool, limit int, shard *storage.ShardPredicate) ([]types.DID, error) {
	query := `SELECT ` + didColumns + ` FROM dids WHERE expired_at IS NOT NULL AND expired_at < ?`
	args := []any{before}
	if shard != nil {
		query += ` AND MOD(CONV(MD5(name),16,10), ?) = ?`
		args = append(args, shard.Total, shard.Worker)
	}
	query += ` ORDER BY expired_at ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit*4) // overfetch: excludeLocked filters client-side after the pushdown
	}

	rows, err := t.sqlTx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("list_expired", err)
	}
	defer rows.Close()

	var out []types.DID
	for rows.Next() {
		d, err := scanDID(rows.Scan)
		if err != nil {
			return nil, wrapDBError("list_expired", err)
		}
		if excludeLocked != nil && excludeLocked(d.Key()) {
			continue
		}
		out = append(out, *d)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, wrapDBError("list_expired", rows.Err())
}

func (t *tx) ListNew(ctx context.Context, didType types.DIDType, excludeInjecting func(types.DIDKey) bool, chunkSize int, shard *storage.ShardPredicate) ([]types.DID, error) {
	query := `SELECT ` + didColumns + ` FROM dids WHERE is_new = 1 AND did_type = ?`
	args := []any{string(didType)}
	if shard != nil {
		query += ` AND MOD(CONV(MD5(name),16,10), ?) = ?`
		args = append(args, shard.Total, shard.Worker)
	}
	if chunkSize > 0 {
		query += ` LIMIT ?`
		args = append(args, chunkSize*4)
	}

	rows, err := t.sqlTx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("list_new", err)
	}
	defer rows.Close()

	var out []types.DID
	for rows.Next() {
		d, err := scanDID(rows.Scan)
		if err != nil {
			return nil, wrapDBError("list_new", err)
		}
		if excludeInjecting != nil && excludeInjecting(d.Key()) {
			continue
		}
		out = append(out, *d)
		if chunkSize > 0 && len(out) >= chunkSize {
			break
		}
	}
	return out, wrapDBError("list_new", rows.Err())
}
