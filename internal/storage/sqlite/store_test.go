package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/storage/sqlite"
)

func TestOpenInMemoryAppliesSchema(t *testing.T) {
	store, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, storage.DialectSQLite, store.Dialect())
	caps := store.Capabilities()
	assert.False(t, caps.HashPushdown)
	assert.False(t, caps.GlobalTempTables)
}

func TestRunInTransactionCommitsOnSuccess(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.InsertDID(ctx, sampleDID("s", "file1"))
	})
	require.NoError(t, err)

	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		_, getErr := tx.GetDID(ctx, "s", "file1")
		return getErr
	})
	assert.NoError(t, err)
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		if insertErr := tx.InsertDID(ctx, sampleDID("s", "file1")); insertErr != nil {
			return insertErr
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		_, getErr := tx.GetDID(ctx, "s", "file1")
		return getErr
	})
	assert.Error(t, err, "the insert should have rolled back with the rest of the transaction")
}

func TestCloseIsIdempotentToCallersButRejectsFurtherUse(t *testing.T) {
	store, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = store.RunInTransaction(context.Background(), func(tx storage.Transaction) error { return nil })
	assert.Error(t, err, "using a closed store should fail rather than silently succeed")
}
