package catalog

import (
	"context"

	"github.com/scicat/catalog/internal/catalogconfig"
	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// DeleteRequest is one entry of the delete_dids batch (§4.5).
type DeleteRequest struct {
	Key           types.DIDKey
	Type          types.DIDType
	PurgeReplicas *bool
}

// DeleteDIDs is the Delete Engine entry point (§4.5): an orchestrated,
// best-effort multi-phase deletion that may early-exit at Phase A
// (rules need to drain) or Phase F (foreign keys still held by an
// external parent) and rely on the caller retrying.
func (c *Catalog) DeleteDIDs(ctx context.Context, tx storage.Transaction, reqs []DeleteRequest, account string, expireRules bool) error {
	ctx, span := tracer.Start(ctx, "catalog.delete_dids")
	defer span.End()
	catalogMetrics.deleteCount.Add(ctx, 1)

	var fileKeys, collectionKeys, allKeys []types.DIDKey
	for _, r := range reqs {
		allKeys = append(allKeys, r.Key)
		if r.Type == types.File {
			fileKeys = append(fileKeys, r.Key)
		} else {
			collectionKeys = append(collectionKeys, r.Key)
		}
		if err := c.emit(ctx, "ERASE", map[string]any{"account": account, "scope": r.Key.Scope, "name": r.Key.Name}); err != nil {
			return err
		}
	}
	if len(allKeys) == 0 {
		return nil
	}

	// Phase A: rules.
	skipDeletion, err := c.deletePhaseRules(ctx, tx, allKeys, expireRules)
	if err != nil {
		return err
	}
	if skipDeletion {
		return nil
	}

	// Phase B: parent detachment.
	existingParentDIDs, err := c.deletePhaseDetachParents(ctx, tx, allKeys)
	if err != nil {
		return err
	}

	// Phase C: DID-level metadata.
	if c.Metadata != nil {
		if err := c.Metadata.DeleteBulk(ctx, allKeys); err != nil && !isErr(err, types.ErrUndefinedPolicy) {
			return err
		}
	}

	// Phase D and the replica parts of Phase E are omitted: replica and
	// collection-replica state belong to the external Replica Engine (§1
	// out-of-scope); this catalog only owns the DID/Association graph, so
	// the only local effect is Phase E's Association removal below.

	// Phase E: collection expansion — sever all outgoing edges from
	// collection inputs.
	if len(collectionKeys) > 0 {
		if _, err := tx.DeleteAssociationsFromParents(ctx, collectionKeys); err != nil {
			return err
		}
	}

	// Phase F: early exit for Judge.
	if existingParentDIDs {
		return nil
	}

	// Phase G: terminal removal.
	return c.deletePhaseTerminal(ctx, tx, fileKeys, collectionKeys, reqs)
}

func (c *Catalog) deletePhaseRules(ctx context.Context, tx storage.Transaction, keys []types.DIDKey, expireRules bool) (skip bool, err error) {
	if c.Rules == nil {
		return false, nil
	}
	rules, err := c.Rules.FindRulesForDIDs(ctx, keys)
	if err != nil {
		return false, err
	}
	threshold := catalogconfig.DefaultExpireRulesLocksSize
	if c.Config != nil {
		threshold = c.Config.GetInt(catalogconfig.KeyUndertakerExpireRulesLocks, threshold)
	}

	for _, r := range rules {
		locks, err := c.Rules.LockCounts(ctx, r.ID)
		if err != nil {
			return false, err
		}
		if expireRules && locks.OK+locks.Replicating+locks.Stuck > threshold {
			if err := c.Rules.SoftExpireRule(ctx, r.ID); err != nil {
				return false, err
			}
			if c.Metadata != nil {
				if err := c.Metadata.Set(ctx, r.DID.Scope, r.DID.Name, "lifetime", "86400"); err != nil && !isErr(err, types.ErrUndefinedPolicy) {
					return false, err
				}
			}
			skip = true
			continue
		}
		if err := c.Rules.DeleteRule(ctx, r.ID, true, true); err != nil {
			return false, err
		}
	}
	return skip, nil
}

func (c *Catalog) deletePhaseDetachParents(ctx context.Context, tx storage.Transaction, keys []types.DIDKey) (bool, error) {
	existing := false
	for _, k := range keys {
		parents, err := tx.ListParents(ctx, k)
		if err != nil {
			return false, err
		}
		if len(parents) == 0 {
			continue
		}
		existing = true
		for _, p := range parents {
			if err := c.DetachDIDs(ctx, tx, p.ParentKey(), []types.DIDKey{k}); err != nil {
				return false, err
			}
		}
	}
	return existing, nil
}

func (c *Catalog) deletePhaseTerminal(ctx context.Context, tx storage.Transaction, fileKeys, collectionKeys []types.DIDKey, reqs []DeleteRequest) error {
	if len(collectionKeys) > 0 {
		if err := tx.DeleteFollowsForDIDs(ctx, collectionKeys); err != nil {
			return err
		}
		archiveDIDs := c.Config != nil && c.Config.GetBool(catalogconfig.KeyDeletionArchiveDIDs, false)
		if archiveDIDs {
			for _, k := range collectionKeys {
				d, err := tx.GetDID(ctx, k.Scope, k.Name)
				if err != nil {
					return err
				}
				if err := tx.InsertDeletedDID(ctx, types.DeletedDID{
					Scope: d.Scope, Name: d.Name, Type: d.Type, Account: d.Account,
					CreatedAt: d.CreatedAt, DeletedAt: now(),
					Bytes: d.Bytes, Length: d.Length, Events: d.Events,
				}); err != nil {
					return err
				}
			}
		}
		if err := tx.DeleteDIDs(ctx, collectionKeys); err != nil {
			return err
		}
	}

	if len(fileKeys) > 0 {
		if err := tx.UpdateDIDWhere(ctx, fileKeys, func(d *types.DID) { d.ExpiredAt = nil }); err != nil {
			return err
		}
	}
	return nil
}
