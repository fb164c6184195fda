package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

func TestScopeExistsFalseUntilInserted(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var exists bool
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var err error
		exists, err = tx.ScopeExists(ctx, "s")
		return err
	})
	require.NoError(t, err)
	assert.False(t, exists)

	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.InsertScope(ctx, types.Scope{Name: "s", Account: "root", VO: "def"})
	})
	require.NoError(t, err)

	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var err error
		exists, err = tx.ScopeExists(ctx, "s")
		return err
	})
	require.NoError(t, err)
	assert.True(t, exists)
}
