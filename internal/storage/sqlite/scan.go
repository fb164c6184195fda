package sqlite

import (
	"context"
	"time"

	"github.com/scicat/catalog/internal/idgen"
	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// ListExpired streams candidate expired DIDs ordered by expired_at
// ascending. SQLite has no hash-pushdown planner support (§4.7), so
// shard is applied by filtering client-side with the same stable hash
// the caller would otherwise push down on a capable dialect.
func (t *tx) ListExpired(ctx context.Context, before time.Time, excludeLocked func(types.DIDKey) bool, limit int, shard *storage.ShardPredicate) ([]types.DID, error) {
	rows, err := t.sqlTx.QueryContext(ctx,
		`SELECT `+didColumns+` FROM dids WHERE expired_at IS NOT NULL AND expired_at < ? ORDER BY expired_at ASC`, before)
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
		if shard != nil && idgen.ShardIndex(d.Name, shard.Total) != shard.Worker {
			continue
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

// ListNew streams DIDs flagged is_new=true of the given type, chunked.
// No ordering guarantee (§4.7).
func (t *tx) ListNew(ctx context.Context, didType types.DIDType, excludeInjecting func(types.DIDKey) bool, chunkSize int, shard *storage.ShardPredicate) ([]types.DID, error) {
	rows, err := t.sqlTx.QueryContext(ctx,
		`SELECT `+didColumns+` FROM dids WHERE is_new = 1 AND did_type = ?`, string(didType))
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
		if shard != nil && idgen.ShardIndex(d.Name, shard.Total) != shard.Worker {
			continue
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
