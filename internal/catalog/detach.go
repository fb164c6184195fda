package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// DetachDIDs is the Detach Engine entry point (§4.4): remove children
// from a DATASET or CONTAINER parent, writing a history row and
// adjusting the parent's cached aggregates for each removed edge.
func (c *Catalog) DetachDIDs(ctx context.Context, tx storage.Transaction, parentKey types.DIDKey, children []types.DIDKey) error {
	ctx, span := tracer.Start(ctx, "catalog.detach_dids")
	defer span.End()
	catalogMetrics.detachCount.Add(ctx, 1)

	parent, err := lockParent(ctx, tx, parentKey, types.Dataset, types.Container)
	if err != nil {
		return err
	}
	if err := tx.InsertUpdatedDIDMarker(ctx, types.UpdatedDIDMarker{
		ID: uuid.NewString(), Scope: parent.Scope, Name: parent.Name, Action: types.ActionDetach,
	}); err != nil {
		return err
	}

	existingChildren, err := tx.ListChildren(ctx, parentKey)
	if err != nil {
		return err
	}
	if len(existingChildren) == 0 {
		return types.NewCatalogError("detach_dids", parentKey.Scope, parentKey.Name, types.ErrDidNotFound)
	}

	for _, childKey := range children {
		if childKey == parentKey {
			return types.NewCatalogError("detach_dids", childKey.Scope, childKey.Name, types.ErrUnsupportedOperation)
		}
		assoc, err := tx.GetAssociation(ctx, parentKey, childKey)
		if err != nil {
			return err
		}

		newBytes := subInt64(parent.Bytes, assoc.Bytes)
		newEvents := subInt64(parent.Events, assoc.Events)
		newLength := parent.Length
		if newLength != nil {
			l := *newLength - 1
			newLength = &l
		}
		if err := tx.UpdateDIDWhere(ctx, []types.DIDKey{parentKey}, func(d *types.DID) {
			d.Bytes, d.Events, d.Length = newBytes, newEvents, newLength
		}); err != nil {
			return err
		}
		parent.Bytes, parent.Events, parent.Length = newBytes, newEvents, newLength

		if err := tx.InsertAssociationHistory(ctx, types.AssociationHistory{
			ParentScope: assoc.ParentScope, ParentName: assoc.ParentName,
			ChildScope: assoc.ChildScope, ChildName: assoc.ChildName,
			DIDType: assoc.DIDType, ChildType: assoc.ChildType,
			Bytes: assoc.Bytes, Events: assoc.Events,
			ParentCreatedAt: parent.CreatedAt, DeletedAt: now(),
		}); err != nil {
			return err
		}
		if err := tx.DeleteAssociation(ctx, parentKey, childKey); err != nil {
			return err
		}

		if parent.Type == types.Container {
			if err := c.emit(ctx, "ERASE_CNT", map[string]any{
				"scope": parentKey.Scope, "name": parentKey.Name,
				"child_scope": childKey.Scope, "child_name": childKey.Name,
			}); err != nil {
				return err
			}
		}
		if err := c.emit(ctx, "DETACH", map[string]any{
			"scope": parentKey.Scope, "name": parentKey.Name, "did_type": string(parent.Type),
			"child_scope": childKey.Scope, "child_name": childKey.Name, "child_type": string(assoc.ChildType),
		}); err != nil {
			return err
		}
	}
	return nil
}
