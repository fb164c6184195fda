package catalog

import (
	"context"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// Resurrect implements resurrect (§4.10): undo an expiry or a terminal
// deletion for each key, preferring to restore from the DeletedDID
// archive when present.
func (c *Catalog) Resurrect(ctx context.Context, tx storage.Transaction, keys []types.DIDKey) error {
	ctx, span := tracer.Start(ctx, "catalog.resurrect")
	defer span.End()

	for _, k := range keys {
		dd, err := tx.GetDeletedDID(ctx, k.Scope, k.Name)
		if err == nil {
			if err := tx.DeleteDeletedDID(ctx, k.Scope, k.Name); err != nil {
				return err
			}
			if err := tx.InsertDID(ctx, types.DID{
				Scope: dd.Scope, Name: dd.Name, Type: dd.Type, Account: dd.Account,
				CreatedAt: dd.CreatedAt, Bytes: dd.Bytes, Length: dd.Length, Events: dd.Events,
				IsOpen: true,
			}); err != nil {
				return err
			}
			continue
		}
		if !isErr(err, types.ErrDidNotFound) {
			return err
		}

		d, err := tx.GetDID(ctx, k.Scope, k.Name)
		if err != nil {
			return err
		}
		if d.ExpiredAt == nil || !d.ExpiredAt.Before(now()) {
			return types.NewCatalogError("resurrect", k.Scope, k.Name, types.ErrDidNotFound)
		}
		if err := tx.UpdateDIDWhere(ctx, []types.DIDKey{k}, func(dd *types.DID) { dd.ExpiredAt = nil }); err != nil {
			return err
		}
	}
	return nil
}
