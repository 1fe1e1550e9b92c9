package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/assetledger/internal/domain/asset"
	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/domain/maintenance"
	"github.com/rpggio/assetledger/internal/repository"
)

func TestAssetRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewAssetRepository(db)
	alice := seedIdentity(t, db, "key-a", "alice")

	first := seedAsset(t, db, alice, "A-1")
	second := seedAsset(t, db, alice, "A-2")
	require.Equal(t, uint64(0), first)
	require.Equal(t, uint64(1), second)

	got, err := repo.Get(ctx, second)
	require.NoError(t, err)
	require.Equal(t, "A-2", got.AssetNumber)
	require.Equal(t, "1500.25", got.PurchasePrice.String())
	require.Equal(t, 2020, got.PurchaseDate.Year())
	require.Equal(t, alice, got.CreatedBy)
	require.Equal(t, identity.None, got.DeletedBy)
	require.Nil(t, got.ReplacedBy)
	require.Empty(t, got.ForecastRefs)
	require.Empty(t, got.ActualRefs)

	_, err = repo.Get(ctx, 7)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAssetRepository_CreateRequiresRegisteredCreator(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewAssetRepository(db)

	err := db.Update(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, &asset.Asset{CreatedBy: identity.ID(9)})
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestAssetRepository_MarkDeletedAndReplaced(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewAssetRepository(db)
	alice := seedIdentity(t, db, "key-a", "alice")
	bob := seedIdentity(t, db, "key-b", "bob")
	old := seedAsset(t, db, alice, "A-1")
	successor := seedAsset(t, db, alice, "A-2")

	require.NoError(t, repo.MarkDeleted(ctx, old, alice))
	require.NoError(t, repo.MarkReplaced(ctx, old, bob, successor))

	got, err := repo.Get(ctx, old)
	require.NoError(t, err)
	require.Equal(t, bob, got.DeletedBy)
	require.NotNil(t, got.ReplacedBy)
	require.Equal(t, successor, *got.ReplacedBy)
	require.True(t, got.Deleted())
	require.True(t, got.Replaced())

	require.ErrorIs(t, repo.MarkDeleted(ctx, 42, alice), repository.ErrNotFound)
}

func TestAssetRepository_RefsKeepAppendOrder(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewAssetRepository(db)
	forecasts := NewForecastRepository(db)
	alice := seedIdentity(t, db, "key-a", "alice")
	a0 := seedAsset(t, db, alice, "A-1")
	a1 := seedAsset(t, db, alice, "A-2")

	for _, owner := range []uint64{a1, a0, a1} {
		f := &maintenance.Forecast{ForecastEntry: maintenance.ForecastEntry{AssetIndex: owner}, CreatedBy: alice}
		require.NoError(t, forecasts.Create(ctx, f))
		require.NoError(t, repo.AppendForecastRef(ctx, owner, f.Index))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, []uint64{1}, list[0].ForecastRefs)
	require.Equal(t, []uint64{0, 2}, list[1].ForecastRefs)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), count)
}
