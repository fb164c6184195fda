package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/storage/sqlite"
	"github.com/scicat/catalog/internal/types"
)

func openTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleDID(scope, name string) types.DID {
	bytes := int64(1024)
	return types.DID{
		Scope:        scope,
		Name:         name,
		Type:         types.File,
		Account:      "root",
		IsOpen:       true,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
		Bytes:        &bytes,
		MD5:          "d41d8cd98f00b204e9800998ecf8427e",
		Adler32:      "00000001",
		Availability: types.Available,
	}
}

func TestInsertAndGetDID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.InsertDID(ctx, sampleDID("testscope", "file1"))
	})
	require.NoError(t, err)

	var got *types.DID
	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		got, getErr = tx.GetDID(ctx, "testscope", "file1")
		return getErr
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "testscope", got.Scope)
	assert.Equal(t, "file1", got.Name)
	assert.Equal(t, types.File, got.Type)
	assert.True(t, got.IsOpen)
	require.NotNil(t, got.Bytes)
	assert.Equal(t, int64(1024), *got.Bytes)
	assert.Equal(t, types.Available, got.Availability)
}

func TestGetDIDNotFound(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		_, getErr := tx.GetDID(ctx, "testscope", "missing")
		return getErr
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDidNotFound)
}

func TestGetDIDs(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		if err := tx.InsertDID(ctx, sampleDID("testscope", "a")); err != nil {
			return err
		}
		return tx.InsertDID(ctx, sampleDID("testscope", "b"))
	})
	require.NoError(t, err)

	var got []types.DID
	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		got, getErr = tx.GetDIDs(ctx, []types.DIDKey{
			{Scope: "testscope", Name: "a"},
			{Scope: "testscope", Name: "b"},
			{Scope: "testscope", Name: "nonexistent"},
		})
		return getErr
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUpdateDIDWhere(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.InsertDID(ctx, sampleDID("testscope", "file1"))
	})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.UpdateDIDWhere(ctx, []types.DIDKey{{Scope: "testscope", Name: "file1"}}, func(d *types.DID) {
			d.IsOpen = false
			d.ClosedAt = &now
		})
	})
	require.NoError(t, err)

	var got *types.DID
	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		got, getErr = tx.GetDID(ctx, "testscope", "file1")
		return getErr
	})
	require.NoError(t, err)
	assert.False(t, got.IsOpen)
	require.NotNil(t, got.ClosedAt)
	assert.Equal(t, now, got.ClosedAt.UTC())
}

func TestDeleteDIDs(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.InsertDID(ctx, sampleDID("testscope", "file1"))
	})
	require.NoError(t, err)

	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.DeleteDIDs(ctx, []types.DIDKey{{Scope: "testscope", Name: "file1"}})
	})
	require.NoError(t, err)

	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		_, getErr := tx.GetDID(ctx, "testscope", "file1")
		return getErr
	})
	assert.ErrorIs(t, err, types.ErrDidNotFound)
}

func TestInsertDIDDuplicateScopeName(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.InsertDID(ctx, sampleDID("testscope", "dup"))
	})
	require.NoError(t, err)

	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.InsertDID(ctx, sampleDID("testscope", "dup"))
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDidAlreadyExists)
}

func TestBulkInsertDIDs(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	dids := []types.DID{
		sampleDID("testscope", "x"),
		sampleDID("testscope", "y"),
		sampleDID("testscope", "z"),
	}
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.BulkInsertDIDs(ctx, dids)
	})
	require.NoError(t, err)

	var got []types.DID
	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		got, getErr = tx.GetDIDs(ctx, []types.DIDKey{
			{Scope: "testscope", Name: "x"},
			{Scope: "testscope", Name: "y"},
			{Scope: "testscope", Name: "z"},
		})
		return getErr
	})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
