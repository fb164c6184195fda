package catalog

import (
	"context"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// GetDID implements get_did (§6): fetch a DID, optionally overlaying its
// stored aggregates with a dynamically recomputed (bytes, length,
// events) triple when dynamicDepth is set.
func (c *Catalog) GetDID(ctx context.Context, tx storage.Transaction, key types.DIDKey, dynamicDepth *types.DIDType) (*types.DID, error) {
	d, err := tx.GetDID(ctx, key.Scope, key.Name)
	if err != nil {
		return nil, err
	}
	if dynamicDepth == nil {
		return d, nil
	}
	bytes, length, events, err := c.ResolveBytesLengthEvents(ctx, tx, d, *dynamicDepth)
	if err != nil {
		return nil, err
	}
	d.Bytes, d.Length, d.Events = &bytes, &length, &events
	return d, nil
}
