package catalog

import (
	"context"

	"github.com/scicat/catalog/internal/catalogconfig"
	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// SetStatus implements set_status (§4.6): close freezes a DATASET or
// CONTAINER's aggregates and emits CLOSE; reopen requires the DID
// currently closed and emits OPEN.
func (c *Catalog) SetStatus(ctx context.Context, tx storage.Transaction, key types.DIDKey, open bool) error {
	ctx, span := tracer.Start(ctx, "catalog.set_status")
	defer span.End()

	d, err := lockParent(ctx, tx, key, types.Dataset, types.Container)
	if err != nil {
		return err
	}

	if !open {
		if !d.IsOpen {
			return types.NewCatalogError("set_status", key.Scope, key.Name, types.ErrUnsupportedStatus)
		}
		depth := types.File
		if d.Type == types.Container {
			depth = types.Dataset
		}
		bytes, length, events, err := c.ResolveBytesLengthEvents(ctx, tx, d, depth)
		if err != nil {
			return err
		}
		closedAt := now()
		if err := tx.UpdateDIDWhere(ctx, []types.DIDKey{key}, func(dd *types.DID) {
			dd.IsOpen = false
			dd.ClosedAt = &closedAt
			dd.Bytes, dd.Length, dd.Events = &bytes, &length, &events
		}); err != nil {
			return err
		}

		if err := c.emit(ctx, "CLOSE", map[string]any{
			"scope": key.Scope, "name": key.Name, "bytes": bytes, "length": length, "events": events,
		}); err != nil {
			return err
		}
		if c.Config != nil && c.Config.GetBool(catalogconfig.KeySubscriptionsReevalAtClose, false) {
			if err := tx.UpdateDIDWhere(ctx, []types.DIDKey{key}, func(dd *types.DID) { dd.IsNew = true }); err != nil {
				return err
			}
		}
		if c.Rules != nil {
			rules, err := c.Rules.FindRulesForDIDs(ctx, []types.DIDKey{key})
			if err != nil {
				return err
			}
			for _, r := range rules {
				if err := c.Rules.GenerateNotifications(ctx, r.ID); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if d.IsOpen {
		return types.NewCatalogError("set_status", key.Scope, key.Name, types.ErrUnsupportedStatus)
	}
	if err := tx.UpdateDIDWhere(ctx, []types.DIDKey{key}, func(dd *types.DID) {
		dd.IsOpen = true
		dd.ClosedAt = nil
	}); err != nil {
		return err
	}
	return c.emit(ctx, "OPEN", map[string]any{"scope": key.Scope, "name": key.Name})
}
