package catalog

import (
	"context"
	"fmt"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// lockParent row-locks the DID at key and requires it be one of
// wantTypes, the common first step of Detach and SetStatus (§4.4,
// §4.6). Attach row-locks its parent with tx.SelectForUpdate directly.
func lockParent(ctx context.Context, tx storage.Transaction, key types.DIDKey, wantTypes ...types.DIDType) (*types.DID, error) {
	d, err := tx.SelectForUpdate(ctx, key.Scope, key.Name)
	if err != nil {
		return nil, err
	}
	if len(wantTypes) == 0 {
		return d, nil
	}
	for _, t := range wantTypes {
		if d.Type == t {
			return d, nil
		}
	}
	return nil, types.NewCatalogError("lock_parent", key.Scope, key.Name,
		fmt.Errorf("%w: expected one of %v, got %s", types.ErrUnsupportedOperation, wantTypes, d.Type))
}

// requireOpen fails unless d is open (§4.3 "Attaching to a non-open DID
// fails").
func requireOpen(d *types.DID) error {
	if !d.IsOpen {
		return types.NewCatalogError("require_open", d.Scope, d.Name, types.ErrUnsupportedOperation)
	}
	return nil
}

// sumInt64 adds two nullable int64 pointers, treating nil as 0, unless
// both are nil (in which case the result is nil too). It currently has
// no caller; detach's counter decrement uses subInt64.
func sumInt64(a, b *int64) *int64 {
	if a == nil && b == nil {
		return nil
	}
	var sum int64
	if a != nil {
		sum += *a
	}
	if b != nil {
		sum += *b
	}
	return &sum
}

func subInt64(a, b *int64) *int64 {
	if a == nil {
		return nil
	}
	if b == nil {
		return a
	}
	v := *a - *b
	return &v
}

func int64Value(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func ptrInt64(v int64) *int64 { return &v }
