package catalog

import (
	"context"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// ResolveBytesLengthEvents computes the dynamic (bytes, length, events)
// triple for a DID at a requested aggregation depth (§4.8). depth names
// the DID type the walk should bottom out at: File means "aggregate
// over the file leaves", Dataset means "sum the stored aggregates of
// every dataset reachable through container edges" (containers only).
func (c *Catalog) ResolveBytesLengthEvents(ctx context.Context, tx storage.Transaction, d *types.DID, depth types.DIDType) (bytes, length, events int64, err error) {
	switch {
	case d.Type == types.File:
		return int64Value(d.Bytes), 1, int64Value(d.Events), nil

	case d.Type == types.Dataset && depth == types.File:
		children, err := tx.ListChildren(ctx, d.Key())
		if err != nil {
			return 0, 0, 0, err
		}
		for _, assoc := range children {
			length++
			bytes += int64Value(assoc.Bytes)
			events += int64Value(assoc.Events)
		}
		return bytes, length, events, nil

	case d.Type == types.Container && depth == types.Dataset:
		datasets, err := tx.ChildDIDs(ctx, []types.DIDKey{d.Key()}, types.Dataset)
		if err != nil {
			return 0, 0, 0, err
		}
		sets, err := tx.GetDIDs(ctx, datasets)
		if err != nil {
			return 0, 0, 0, err
		}
		for _, ds := range sets {
			length += int64Value(ds.Length)
			bytes += int64Value(ds.Bytes)
			events += int64Value(ds.Events)
		}
		return bytes, length, events, nil

	case d.Type == types.Container && depth == types.File:
		datasets, err := tx.ChildDIDs(ctx, []types.DIDKey{d.Key()}, types.Dataset)
		if err != nil {
			return 0, 0, 0, err
		}
		for _, dsKey := range datasets {
			children, err := tx.ListChildren(ctx, dsKey)
			if err != nil {
				return 0, 0, 0, err
			}
			for _, assoc := range children {
				length++
				bytes += int64Value(assoc.Bytes)
				events += int64Value(assoc.Events)
			}
		}
		return bytes, length, events, nil

	default:
		return int64Value(d.Bytes), int64Value(d.Length), int64Value(d.Events), nil
	}
}
