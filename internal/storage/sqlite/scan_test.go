package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scicat/catalog/internal/idgen"
	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

func TestListExpiredOrdersByExpiredAtAscending(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Hour)

	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		for name, exp := range map[string]time.Time{"late": later, "early": earlier} {
			d := sampleDID("s", name)
			d.ExpiredAt = ptrTime(exp)
			if err := tx.InsertDID(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	var expired []types.DID
	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		expired, getErr = tx.ListExpired(ctx, now.Add(24*time.Hour), nil, 0, nil)
		return getErr
	})
	require.NoError(t, err)
	require.Len(t, expired, 2)
	assert.Equal(t, "early", expired[0].Name)
	assert.Equal(t, "late", expired[1].Name)
}

func TestListExpiredExcludesLocked(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		for _, name := range []string{"locked", "unlocked"} {
			d := sampleDID("s", name)
			d.ExpiredAt = ptrTime(now.Add(-time.Minute))
			if err := tx.InsertDID(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	excludeLocked := func(k types.DIDKey) bool { return k.Name == "locked" }

	var expired []types.DID
	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		expired, getErr = tx.ListExpired(ctx, now.Add(time.Hour), excludeLocked, 0, nil)
		return getErr
	})
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "unlocked", expired[0].Name)
}

func TestListExpiredRespectsShardPredicate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	names := []string{"alpha", "bravo", "charlie", "delta"}
	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		for _, name := range names {
			d := sampleDID("s", name)
			d.ExpiredAt = ptrTime(now.Add(-time.Minute))
			if err := tx.InsertDID(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	const totalWorkers = 3
	var wantNames []string
	for _, name := range names {
		if idgen.ShardIndex(name, totalWorkers) == 1 {
			wantNames = append(wantNames, name)
		}
	}

	var expired []types.DID
	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		expired, getErr = tx.ListExpired(ctx, now.Add(time.Hour), nil, 0, &storage.ShardPredicate{Worker: 1, Total: totalWorkers})
		return getErr
	})
	require.NoError(t, err)
	gotNames := make([]string, len(expired))
	for i, d := range expired {
		gotNames[i] = d.Name
	}
	assert.ElementsMatch(t, wantNames, gotNames)
}

func TestListNewFiltersByTypeAndFlag(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		fileNew := sampleDID("s", "file-new")
		fileNew.IsNew = true
		if err := tx.InsertDID(ctx, fileNew); err != nil {
			return err
		}
		fileOld := sampleDID("s", "file-old")
		fileOld.IsNew = false
		if err := tx.InsertDID(ctx, fileOld); err != nil {
			return err
		}
		datasetNew := sampleDID("s", "dataset-new")
		datasetNew.Type = types.Dataset
		datasetNew.IsNew = true
		return tx.InsertDID(ctx, datasetNew)
	})
	require.NoError(t, err)

	var newFiles []types.DID
	err = store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var getErr error
		newFiles, getErr = tx.ListNew(ctx, types.File, nil, 0, nil)
		return getErr
	})
	require.NoError(t, err)
	require.Len(t, newFiles, 1)
	assert.Equal(t, "file-new", newFiles[0].Name)
}

func ptrTime(t time.Time) *time.Time { return &t }
