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

// buildTree wires root -> mid -> dataset1 -> [file1, file2].
func buildTree(t *testing.T, store *sqlite.Store, ctx context.Context) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		edges := []types.Association{
			{ParentScope: "s", ParentName: "root", ChildScope: "s", ChildName: "mid", DIDType: types.Container, ChildType: types.Container, CreatedAt: now},
			{ParentScope: "s", ParentName: "mid", ChildScope: "s", ChildName: "dataset1", DIDType: types.Container, ChildType: types.Dataset, CreatedAt: now},
			{ParentScope: "s", ParentName: "dataset1", ChildScope: "s", ChildName: "file1", DIDType: types.Dataset, ChildType: types.File, CreatedAt: now},
			{ParentScope: "s", ParentName: "dataset1", ChildScope: "s", ChildName: "file2", DIDType: types.Dataset, ChildType: types.File, CreatedAt: now},
		}
		for _, e := range edges {
			if err := tx.InsertAssociation(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestChildDIDsDescendsToFiles(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	buildTree(t, store, ctx)

	var files []types.DIDKey
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		files, getErr = tx.ChildDIDs(ctx, []types.DIDKey{{Scope: "s", Name: "root"}}, types.File)
		return getErr
	})
	require.NoError(t, err)
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	assert.ElementsMatch(t, []string{"file1", "file2"}, names)
}

func TestChildDIDsStopsAtDatasetForContainerTarget(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	buildTree(t, store, ctx)

	var containers []types.DIDKey
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		containers, getErr = tx.ChildDIDs(ctx, []types.DIDKey{{Scope: "s", Name: "root"}}, types.Container)
		return getErr
	})
	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, "mid", containers[0].Name)
}

func TestAncestorsWalksContainerChain(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	buildTree(t, store, ctx)

	var ancestors []types.DIDKey
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		ancestors, getErr = tx.Ancestors(ctx, types.DIDKey{Scope: "s", Name: "mid"})
		return getErr
	})
	require.NoError(t, err)
	require.Len(t, ancestors, 1)
	assert.Equal(t, "root", ancestors[0].Name)
}

func TestAncestorsIncludesTransitiveContainers(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	buildTree(t, store, ctx)

	var ancestors []types.DIDKey
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		ancestors, getErr = tx.Ancestors(ctx, types.DIDKey{Scope: "s", Name: "dataset1"})
		return getErr
	})
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	names := []string{ancestors[0].Name, ancestors[1].Name}
	assert.ElementsMatch(t, []string{"mid", "root"}, names)
}

func TestAncestorsOfFileIsEmpty(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	buildTree(t, store, ctx)

	var ancestors []types.DIDKey
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		ancestors, getErr = tx.Ancestors(ctx, types.DIDKey{Scope: "s", Name: "file1"})
		return getErr
	})
	require.NoError(t, err)
	assert.Empty(t, ancestors)
}
