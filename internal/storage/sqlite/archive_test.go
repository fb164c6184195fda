package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

func TestInsertAndListArchiveConstituents(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	bytes := int64(2048)
	c := types.ArchiveConstituent{
		ArchiveScope: "s", ArchiveName: "archive1",
		FileScope: "s", FileName: "file1",
		Bytes: &bytes, Adler32: "00000002", MD5: "abc", CreatedAt: now,
	}

	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.InsertArchiveConstituent(ctx, c)
	})
	require.NoError(t, err)

	var got []types.ArchiveConstituent
	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		got, getErr = tx.ListArchiveConstituents(ctx, types.DIDKey{Scope: "s", Name: "archive1"})
		return getErr
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "file1", got[0].FileName)
	require.NotNil(t, got[0].Bytes)
	assert.Equal(t, int64(2048), *got[0].Bytes)
}

func TestBulkInsertArchiveConstituents(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	cs := []types.ArchiveConstituent{
		{ArchiveScope: "s", ArchiveName: "archive1", FileScope: "s", FileName: "f1", CreatedAt: now},
		{ArchiveScope: "s", ArchiveName: "archive1", FileScope: "s", FileName: "f2", CreatedAt: now},
	}
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.BulkInsertArchiveConstituents(ctx, cs)
	})
	require.NoError(t, err)

	var got []types.ArchiveConstituent
	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		got, getErr = tx.ListArchiveConstituents(ctx, types.DIDKey{Scope: "s", Name: "archive1"})
		return getErr
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
