package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

func TestKeyTableRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var keys []types.DIDKey
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		kt, err := tx.TempTables().NewKeyTable(ctx)
		if err != nil {
			return err
		}
		if err := kt.Insert(ctx, []types.DIDKey{{Scope: "s", Name: "a"}, {Scope: "s", Name: "b"}}); err != nil {
			return err
		}
		keys, err = kt.Keys(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestNewKeyTableGivesDistinctTablesPerCall(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		kt1, err := tx.TempTables().NewKeyTable(ctx)
		if err != nil {
			return err
		}
		kt2, err := tx.TempTables().NewKeyTable(ctx)
		if err != nil {
			return err
		}
		assert.NotEqual(t, kt1.Name(), kt2.Name())

		if err := kt1.Insert(ctx, []types.DIDKey{{Scope: "s", Name: "only-in-one"}}); err != nil {
			return err
		}
		keys2, err := kt2.Keys(ctx)
		if err != nil {
			return err
		}
		assert.Empty(t, keys2)
		return nil
	})
	require.NoError(t, err)
}

func TestEdgeTableInsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		et, err := tx.TempTables().NewEdgeTable(ctx)
		if err != nil {
			return err
		}
		parents := []types.DIDKey{{Scope: "s", Name: "p1"}, {Scope: "s", Name: "p2"}}
		children := []types.DIDKey{{Scope: "s", Name: "c1"}, {Scope: "s", Name: "c2"}}
		return et.Insert(ctx, parents, children)
	})
	require.NoError(t, err)
}
