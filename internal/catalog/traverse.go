package catalog

import (
	"context"
	"time"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// ListContent returns the immediate children of a DATASET or CONTAINER
// (§6 list_content).
func (c *Catalog) ListContent(ctx context.Context, tx storage.Transaction, key types.DIDKey) ([]types.Association, error) {
	if _, err := tx.GetDID(ctx, key.Scope, key.Name); err != nil {
		return nil, err
	}
	return tx.ListChildren(ctx, key)
}

// ListFiles descends the DAG and returns every FILE reachable from key
// (§6 list_files), delegating to the storage layer's recursive CTE
// (§9 "prefer a recursive CTE when the backend supports it").
func (c *Catalog) ListFiles(ctx context.Context, tx storage.Transaction, key types.DIDKey) ([]types.DIDKey, error) {
	if _, err := tx.GetDID(ctx, key.Scope, key.Name); err != nil {
		return nil, err
	}
	return tx.ChildDIDs(ctx, []types.DIDKey{key}, types.File)
}

// ListParentDIDs returns the immediate parents of a DID (§6
// list_parent_dids).
func (c *Catalog) ListParentDIDs(ctx context.Context, tx storage.Transaction, key types.DIDKey) ([]types.Association, error) {
	if _, err := tx.GetDID(ctx, key.Scope, key.Name); err != nil {
		return nil, err
	}
	return tx.ListParents(ctx, key)
}

// ListAllParentDIDs walks parent edges upward to the root(s) of the DAG
// (§6 list_all_parent_dids, §9 "Recursive generators → bounded
// streaming": expressed here as an explicit-stack depth-first walk over
// single-hop ListParents, since the recursive Ancestors query follows
// only CONTAINER edges and would miss a file's dataset parents).
func (c *Catalog) ListAllParentDIDs(ctx context.Context, tx storage.Transaction, key types.DIDKey) ([]types.DIDKey, error) {
	if _, err := tx.GetDID(ctx, key.Scope, key.Name); err != nil {
		return nil, err
	}

	seen := map[types.DIDKey]bool{}
	var out []types.DIDKey
	stack := []types.DIDKey{key}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		parents, err := tx.ListParents(ctx, cur)
		if err != nil {
			return nil, err
		}
		for _, p := range parents {
			pk := p.ParentKey()
			if seen[pk] {
				continue
			}
			seen[pk] = true
			out = append(out, pk)
			stack = append(stack, pk)
		}
	}
	return out, nil
}

// ListArchiveContent lists the files packed inside an archive FILE
// (§2.3 supplement, grounded on the original's list_archive_content).
// Distinct from ListContent: archive constituents are a parallel
// relation to Association (§3 Archive Constituent).
func (c *Catalog) ListArchiveContent(ctx context.Context, tx storage.Transaction, archive types.DIDKey) ([]types.ArchiveConstituent, error) {
	if _, err := tx.GetDID(ctx, archive.Scope, archive.Name); err != nil {
		return nil, err
	}
	return tx.ListArchiveConstituents(ctx, archive)
}

// ListContentHistory lists the Association History rows for everything
// ever attached to, and later detached from, a DID (§2.3 supplement,
// grounded on the original's list_content_history).
func (c *Catalog) ListContentHistory(ctx context.Context, tx storage.Transaction, key types.DIDKey) ([]types.AssociationHistory, error) {
	return tx.ListAssociationHistory(ctx, key)
}

// GetUsersFollowingDID returns the accounts following a DID (§2.3
// supplement, grounded on the original's get_users_following_did).
func (c *Catalog) GetUsersFollowingDID(ctx context.Context, tx storage.Transaction, key types.DIDKey) ([]string, error) {
	if _, err := tx.GetDID(ctx, key.Scope, key.Name); err != nil {
		return nil, err
	}
	followers, err := tx.ListFollowers(ctx, key.Scope, key.Name)
	if err != nil {
		return nil, err
	}
	accounts := make([]string, 0, len(followers))
	for _, f := range followers {
		accounts = append(accounts, f.Account)
	}
	return accounts, nil
}

// TouchDIDs updates accessed_at and increments access_cnt for the given
// DIDs (§2.3 supplement, grounded on the original's touch_dids). Errors
// from individual rows propagate rather than being swallowed into a
// bool return, matching this engine's error-return convention (§7)
// rather than the original's "return False on failure" shape.
func (c *Catalog) TouchDIDs(ctx context.Context, tx storage.Transaction, keys []types.DIDKey, at time.Time) error {
	return tx.UpdateDIDWhere(ctx, keys, func(d *types.DID) {
		t := at
		d.AccessedAt = &t
		d.AccessCnt++
	})
}

// GetDIDAtime returns the accessed_at timestamp for a DID (§2.3
// supplement, grounded on the original's get_did_atime; used for
// testing/inspection, matching the original's own docstring).
func (c *Catalog) GetDIDAtime(ctx context.Context, tx storage.Transaction, key types.DIDKey) (*time.Time, error) {
	d, err := tx.GetDID(ctx, key.Scope, key.Name)
	if err != nil {
		return nil, err
	}
	return d.AccessedAt, nil
}

// GetDIDAccessCnt returns the access_cnt counter for a DID (§2.3
// supplement, grounded on the original's get_did_access_cnt).
func (c *Catalog) GetDIDAccessCnt(ctx context.Context, tx storage.Transaction, key types.DIDKey) (int64, error) {
	d, err := tx.GetDID(ctx, key.Scope, key.Name)
	if err != nil {
		return 0, err
	}
	return d.AccessCnt, nil
}
