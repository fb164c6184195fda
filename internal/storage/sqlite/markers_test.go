package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

func TestInsertUpdatedDIDMarker(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.InsertUpdatedDIDMarker(ctx, types.UpdatedDIDMarker{
			ID: "marker1", Scope: "s", Name: "dataset1", Action: types.ActionAttach,
		})
	})
	require.NoError(t, err)
}

func TestInsertUpdatedDIDMarkerDuplicateIDFails(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	m := types.UpdatedDIDMarker{ID: "marker1", Scope: "s", Name: "dataset1", Action: types.ActionDetach}
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.InsertUpdatedDIDMarker(ctx, m)
	})
	require.NoError(t, err)

	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.InsertUpdatedDIDMarker(ctx, m)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDidAlreadyExists)
}
