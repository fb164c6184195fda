package catalog

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// ListExpiredDIDs streams candidates for the Delete Engine (§4.7
// list_expired_dids): DIDs whose expired_at has passed, excluding any
// currently covered by a locked replication rule.
func (c *Catalog) ListExpiredDIDs(ctx context.Context, tx storage.Transaction, before time.Time, limit int, shard *storage.ShardPredicate) ([]types.DID, error) {
	excludeLocked := func(key types.DIDKey) bool {
		if c.Rules == nil {
			return false
		}
		rules, err := c.Rules.FindRulesForDIDs(ctx, []types.DIDKey{key})
		if err != nil {
			return false
		}
		for _, r := range rules {
			if r.Locked {
				return true
			}
		}
		return false
	}
	return tx.ListExpired(ctx, before, excludeLocked, limit, shard)
}

// ListNewDIDs streams DIDs awaiting subscription re-evaluation (§4.7
// list_new_dids), excluding any DID covered by a locked rule. A rule's
// injection state is not examined; only its Locked flag is.
func (c *Catalog) ListNewDIDs(ctx context.Context, tx storage.Transaction, didType types.DIDType, chunkSize int, shard *storage.ShardPredicate) ([]types.DID, error) {
	excludeInjecting := func(key types.DIDKey) bool {
		if c.Rules == nil {
			return false
		}
		rules, err := c.Rules.FindRulesForDIDs(ctx, []types.DIDKey{key})
		if err != nil {
			return false
		}
		for _, r := range rules {
			if r.Locked {
				return true
			}
		}
		return false
	}
	return tx.ListNew(ctx, didType, excludeInjecting, chunkSize, shard)
}

// RunShardedWorkers drives totalWorkers in-process workers (§5), each
// bound to its own transaction opened from gw, against a disjoint shard
// of the DID namespace. work runs inside worker index i's transaction,
// committing on success and rolling back on error; the first worker
// error cancels the group and is returned once all workers have exited.
func RunShardedWorkers(ctx context.Context, gw storage.Gateway, totalWorkers int, work func(ctx context.Context, tx storage.Transaction, shard storage.ShardPredicate) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < totalWorkers; i++ {
		worker := i
		g.Go(func() error {
			shard := storage.ShardPredicate{Worker: worker, Total: totalWorkers}
			return gw.RunInTransaction(ctx, func(tx storage.Transaction) error {
				return work(ctx, tx, shard)
			})
		})
	}
	return g.Wait()
}
