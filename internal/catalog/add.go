package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// NewDIDRequest is one entry of the add_dids batch (§6 add_dids,
// supplemented in §2.3 since §4 does not walk this operation in full).
type NewDIDRequest struct {
	Scope   string
	Name    string
	Type    types.DIDType
	Account string
	Meta    map[string]string
	Extra   map[string]string

	// FILE-only attributes.
	Bytes        *int64
	Events       *int64
	MD5          string
	Adler32      string
	GUID         string
	Availability types.Availability
}

// AddDIDs creates new FILE/DATASET/CONTAINER rows. Each row must not
// already exist (DidAlreadyExists) and must name a scope that exists
// (ScopeNotFound). FILE rows are created directly available; DATASET
// and CONTAINER rows are created open with zeroed aggregates and emit
// CREATE_DTS / CREATE_CNT respectively.
func (c *Catalog) AddDIDs(ctx context.Context, tx storage.Transaction, reqs []NewDIDRequest, account string) error {
	ctx, span := tracer.Start(ctx, "catalog.add_dids")
	defer span.End()

	for _, r := range reqs {
		if r.Account == "" {
			r.Account = account
		}
		if !r.Type.IsValid() {
			return types.NewCatalogError("add_dids", r.Scope, r.Name, fmt.Errorf("%w: invalid did_type %q", types.ErrUnsupportedOperation, r.Type))
		}
		if existing, err := tx.GetDID(ctx, r.Scope, r.Name); err == nil && existing != nil {
			return types.NewCatalogError("add_dids", r.Scope, r.Name, types.ErrDidAlreadyExists)
		}
		if exists, err := tx.ScopeExists(ctx, r.Scope); err != nil {
			return err
		} else if !exists {
			return types.NewCatalogError("add_dids", r.Scope, r.Name, types.ErrScopeNotFound)
		}

		d := types.DID{
			Scope:     r.Scope,
			Name:      r.Name,
			Type:      r.Type,
			Account:   r.Account,
			IsOpen:    true,
			CreatedAt: now(),
			Extra:     r.Extra,
		}
		switch r.Type {
		case types.File:
			d.Bytes = r.Bytes
			d.Length = ptrInt64(1)
			d.Events = r.Events
			d.MD5 = r.MD5
			d.Adler32 = r.Adler32
			d.GUID = r.GUID
			d.Availability = r.Availability
			if d.Availability == "" {
				d.Availability = types.Available
			}
		case types.Dataset, types.Container:
			d.Bytes = ptrInt64(0)
			d.Length = ptrInt64(0)
			d.Events = ptrInt64(0)
		}

		if err := d.Validate(); err != nil {
			return types.NewCatalogError("add_dids", r.Scope, r.Name, fmt.Errorf("%w: %v", types.ErrUnsupportedOperation, err))
		}
		if err := tx.InsertDID(ctx, d); err != nil {
			return err
		}

		if len(r.Meta) > 0 && c.Metadata != nil {
			if err := c.Metadata.SetBulk(ctx, r.Scope, r.Name, r.Meta); err != nil {
				return err
			}
		}

		switch r.Type {
		case types.Dataset:
			if err := c.emit(ctx, "CREATE_DTS", map[string]any{"account": r.Account, "scope": r.Scope, "name": r.Name}); err != nil {
				return err
			}
		case types.Container:
			if err := c.emit(ctx, "CREATE_CNT", map[string]any{"account": r.Account, "scope": r.Scope, "name": r.Name}); err != nil {
				return err
			}
		}
	}
	return nil
}

// now returns the current wall-clock time in UTC; every timestamp the
// engine writes comes from it.
func now() time.Time { return time.Now().UTC() }
