package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// ChildAttachment is one child named in an attach_dids_to_dids batch
// entry, carrying the caller-asserted attributes used for the dataset
// sub-routine's consistency check (§4.3.2 invariant 8).
type ChildAttachment struct {
	Scope   string
	Name    string
	Bytes   *int64
	Adler32 string
	MD5     string
	GUID    string
}

func (c ChildAttachment) Key() types.DIDKey { return types.DIDKey{Scope: c.Scope, Name: c.Name} }

// Attachment is one entry of the attach_dids_to_dids batch: a parent and
// the children to attach under it.
type Attachment struct {
	Parent   types.DIDKey
	Children []ChildAttachment
	RSEID    string
}

// AttachDIDsToDIDs is the Attach Engine entry point (§4.3). It
// dispatches per attachment on the parent's type and emits a
// deduplicated set of Updated-DID markers across the whole batch.
func (c *Catalog) AttachDIDsToDIDs(ctx context.Context, tx storage.Transaction, attachments []Attachment, account string, ignoreDuplicate bool) error {
	ctx, span := tracer.Start(ctx, "catalog.attach_dids_to_dids")
	defer span.End()
	catalogMetrics.attachCount.Add(ctx, 1)

	changedParents := map[types.DIDKey]bool{}

	for _, a := range attachments {
		if len(a.Children) == 0 {
			continue
		}
		keyTable, err := tx.TempTables().NewKeyTable(ctx)
		if err != nil {
			return err
		}
		childKeys := make([]types.DIDKey, len(a.Children))
		for i, ch := range a.Children {
			childKeys[i] = ch.Key()
		}
		if err := keyTable.Insert(ctx, childKeys); err != nil {
			return err
		}

		parent, err := tx.SelectForUpdate(ctx, a.Parent.Scope, a.Parent.Name)
		if err != nil {
			return err
		}

		var changed bool
		switch parent.Type {
		case types.File:
			changed, err = c.attachArchive(ctx, tx, parent, a.Children, ignoreDuplicate)
		case types.Dataset:
			if err := requireOpen(parent); err != nil {
				return err
			}
			changed, err = c.attachDataset(ctx, tx, parent, a.Children, a.RSEID, ignoreDuplicate)
		case types.Container:
			if err := requireOpen(parent); err != nil {
				return err
			}
			changed, err = c.attachContainer(ctx, tx, parent, a.Children, ignoreDuplicate)
		default:
			return types.NewCatalogError("attach", a.Parent.Scope, a.Parent.Name, types.ErrUnsupportedOperation)
		}
		if err != nil {
			return err
		}
		if changed {
			changedParents[a.Parent] = true
		}
	}

	for parent := range changedParents {
		if err := tx.InsertUpdatedDIDMarker(ctx, types.UpdatedDIDMarker{
			ID: uuid.NewString(), Scope: parent.Scope, Name: parent.Name, Action: types.ActionAttach,
		}); err != nil {
			return err
		}
	}
	return nil
}

var archiveExtensions = []string{".zip", ".tar", ".tar.gz", ".tgz"}

func isArchiveName(name string) bool {
	for _, ext := range archiveExtensions {
		if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// attachArchive is the archive sub-routine (§4.3.1). Every attachment in
// the batch is processed independently (Open Question resolved: no
// short-circuit after the first FILE parent).
func (c *Catalog) attachArchive(ctx context.Context, tx storage.Transaction, archive *types.DID, children []ChildAttachment, ignoreDuplicate bool) (bool, error) {
	if !isArchiveName(archive.Name) {
		return false, types.NewCatalogError("attach_archive", archive.Scope, archive.Name, types.ErrUnsupportedOperation)
	}

	var newFiles []types.DID
	var newConstituents []types.ArchiveConstituent
	var flipConstituent []types.DIDKey
	changed := false

	for _, ch := range children {
		existing, err := tx.GetDID(ctx, ch.Scope, ch.Name)
		if err != nil && !isDidNotFound(err) {
			return false, err
		}
		if existing == nil {
			d := types.DID{
				Scope: ch.Scope, Name: ch.Name, Type: types.File, Account: archive.Account,
				IsOpen: true, CreatedAt: now(), Constituent: true,
				Length: ptrInt64(1), Bytes: ch.Bytes, MD5: ch.MD5, Adler32: ch.Adler32, GUID: ch.GUID,
				Availability: types.Available,
			}
			newFiles = append(newFiles, d)
			newConstituents = append(newConstituents, types.ArchiveConstituent{
				ArchiveScope: archive.Scope, ArchiveName: archive.Name,
				FileScope: ch.Scope, FileName: ch.Name,
				Bytes: ch.Bytes, MD5: ch.MD5, Adler32: ch.Adler32, GUID: ch.GUID, CreatedAt: now(),
			})
			changed = true
			continue
		}
		if existing.Type != types.File {
			return false, types.NewCatalogError("attach_archive", ch.Scope, ch.Name, types.ErrUnsupportedOperation)
		}
		if ignoreDuplicate {
			constituents, err := tx.ListArchiveConstituents(ctx, archive.Key())
			if err != nil {
				return false, err
			}
			alreadyLinked := false
			for _, cst := range constituents {
				if cst.FileScope == ch.Scope && cst.FileName == ch.Name {
					alreadyLinked = true
					break
				}
			}
			if alreadyLinked {
				continue
			}
		}
		newConstituents = append(newConstituents, types.ArchiveConstituent{
			ArchiveScope: archive.Scope, ArchiveName: archive.Name,
			FileScope: ch.Scope, FileName: ch.Name,
			Bytes: ch.Bytes, MD5: ch.MD5, Adler32: ch.Adler32, GUID: ch.GUID, CreatedAt: now(),
		})
		if !existing.Constituent {
			flipConstituent = append(flipConstituent, ch.Key())
		}
		changed = true
	}

	if err := tx.BulkInsertDIDs(ctx, newFiles); err != nil {
		return false, err
	}
	if err := tx.BulkInsertArchiveConstituents(ctx, newConstituents); err != nil {
		return false, err
	}
	if len(flipConstituent) > 0 {
		if err := tx.UpdateDIDWhere(ctx, flipConstituent, func(d *types.DID) { d.Constituent = true }); err != nil {
			return false, err
		}
	}

	parents, err := tx.ListParents(ctx, archive.Key())
	if err == nil && len(parents) > 0 {
		var parentKeys []types.DIDKey
		for _, p := range parents {
			parentKeys = append(parentKeys, p.ParentKey())
		}
		if err := tx.UpdateDIDWhere(ctx, parentKeys, func(d *types.DID) { d.IsArchive = true }); err != nil {
			return false, err
		}
	}
	return changed, nil
}

// attachDataset is the dataset sub-routine (§4.3.2).
func (c *Catalog) attachDataset(ctx context.Context, tx storage.Transaction, parent *types.DID, children []ChildAttachment, rseID string, ignoreDuplicate bool) (bool, error) {
	var toRegister []types.DIDKey
	var newAssocs []types.Association
	var archiveParents []types.DIDKey
	changed := false

	for _, ch := range children {
		child, err := tx.GetDID(ctx, ch.Scope, ch.Name)
		if err != nil {
			return false, err
		}
		if child.Type != types.File {
			return false, types.NewCatalogError("attach_dataset", ch.Scope, ch.Name, types.ErrUnsupportedOperation)
		}
		if child.Availability == types.Lost {
			return false, types.NewCatalogError("attach_dataset", ch.Scope, ch.Name, types.ErrUnsupportedOperation)
		}
		if ch.Bytes != nil && child.Bytes != nil && *ch.Bytes != *child.Bytes {
			return false, types.NewCatalogError("attach_dataset", ch.Scope, ch.Name, types.ErrFileConsistencyMismatch)
		}
		if ch.Adler32 != "" && child.Adler32 != "" && ch.Adler32 != child.Adler32 {
			return false, types.NewCatalogError("attach_dataset", ch.Scope, ch.Name, types.ErrFileConsistencyMismatch)
		}
		if ch.MD5 != "" && child.MD5 != "" && ch.MD5 != child.MD5 {
			return false, types.NewCatalogError("attach_dataset", ch.Scope, ch.Name, types.ErrFileConsistencyMismatch)
		}

		if ignoreDuplicate {
			if _, err := tx.GetAssociation(ctx, parent.Key(), child.Key()); err == nil {
				continue
			}
		}
		if child.IsArchive {
			archiveParents = append(archiveParents, parent.Key())
		}

		newAssocs = append(newAssocs, types.Association{
			ParentScope: parent.Scope, ParentName: parent.Name,
			ChildScope: child.Scope, ChildName: child.Name,
			DIDType: types.Dataset, ChildType: types.File,
			Bytes: child.Bytes, Adler32: child.Adler32, MD5: child.MD5, GUID: child.GUID, Events: child.Events,
			RuleEvaluation: true, CreatedAt: now(),
		})
		toRegister = append(toRegister, child.Key())
		changed = true
	}

	if rseID != "" && c.Replicas != nil && len(toRegister) > 0 {
		if err := c.Replicas.RegisterReplicas(ctx, rseID, toRegister); err != nil {
			return false, err
		}
	}
	if err := tx.BulkInsertAssociations(ctx, newAssocs); err != nil {
		return false, err
	}
	if len(archiveParents) > 0 {
		if err := tx.UpdateDIDWhere(ctx, archiveParents, func(d *types.DID) { d.IsArchive = true }); err != nil {
			return false, err
		}
	}
	return changed, nil
}

// attachContainer is the container sub-routine (§4.3.3).
func (c *Catalog) attachContainer(ctx context.Context, tx storage.Transaction, parent *types.DID, children []ChildAttachment, ignoreDuplicate bool) (bool, error) {
	var observedType types.DIDType
	var newAssocs []types.Association
	changed := false

	for _, ch := range children {
		if ch.Scope == parent.Scope && ch.Name == parent.Name {
			return false, types.NewCatalogError("attach_container", ch.Scope, ch.Name, fmt.Errorf("%w: self-append", types.ErrUnsupportedOperation))
		}
		child, err := tx.GetDID(ctx, ch.Scope, ch.Name)
		if err != nil {
			return false, err
		}
		if child.Type == types.File {
			return false, types.NewCatalogError("attach_container", ch.Scope, ch.Name, types.ErrUnsupportedOperation)
		}
		if observedType == "" {
			observedType = child.Type
		} else if observedType != child.Type {
			return false, types.NewCatalogError("attach_container", ch.Scope, ch.Name, fmt.Errorf("%w: mixed child types", types.ErrUnsupportedOperation))
		}

		if child.Type == types.Container {
			ancestors, err := tx.Ancestors(ctx, parent.Key())
			if err != nil {
				return false, err
			}
			for _, anc := range ancestors {
				if anc == child.Key() {
					return false, types.NewCatalogError("attach_container", ch.Scope, ch.Name, fmt.Errorf("%w: cycle", types.ErrUnsupportedOperation))
				}
			}
		}

		if ignoreDuplicate {
			if _, err := tx.GetAssociation(ctx, parent.Key(), child.Key()); err == nil {
				continue
			}
		}

		newAssocs = append(newAssocs, types.Association{
			ParentScope: parent.Scope, ParentName: parent.Name,
			ChildScope: child.Scope, ChildName: child.Name,
			DIDType: types.Container, ChildType: child.Type,
			RuleEvaluation: true, CreatedAt: now(),
		})
		changed = true

		if err := c.emit(ctx, "REGISTER_CNT", map[string]any{
			"scope": parent.Scope, "name": parent.Name,
			"childscope": ch.Scope, "childname": ch.Name, "childtype": string(child.Type),
		}); err != nil {
			return false, err
		}
	}

	if err := tx.BulkInsertAssociations(ctx, newAssocs); err != nil {
		return false, err
	}
	return changed, nil
}

func isDidNotFound(err error) bool {
	return err != nil && (isErr(err, types.ErrDidNotFound))
}
