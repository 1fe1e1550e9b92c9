package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/assetledger/internal/domain/asset"
	"github.com/rpggio/assetledger/internal/domain/identity"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func seedIdentity(t *testing.T, db *DB, credential, name string) identity.ID {
	t.Helper()
	ident := &identity.Identity{Credential: credential, DisplayName: name}
	require.NoError(t, NewIdentityRepository(db).Create(context.Background(), ident))
	return ident.Index
}

func seedAsset(t *testing.T, db *DB, createdBy identity.ID, number string) uint64 {
	t.Helper()
	a := &asset.Asset{
		Fields: asset.Fields{
			AssetNumber:   number,
			Area:          "Plant room",
			Description:   "Boiler",
			Unit:          "ea",
			Quantity:      1,
			ExpectedLife:  20,
			PurchasePrice: decimal.RequireFromString("1500.25"),
			PurchaseDate:  time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
			WarrantyEnd:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Barcode:       "BC-" + number,
		},
		CreatedBy: createdBy,
	}
	require.NoError(t, NewAssetRepository(db).Create(context.Background(), a))
	return a.Index
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"identities",
		"assets",
		"forecasts",
		"actuals",
		"asset_forecast_refs",
		"asset_actual_refs",
		"activity_log",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

func TestMigrationsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	owner := seedIdentity(t, db, "key-a", "alice")
	seedAsset(t, db, owner, "A-1")
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RunMigrations())
	require.NoError(t, db.RunMigrations())

	version, err := db.SchemaVersion()
	require.NoError(t, err)
	require.Equal(t, 1, version)

	n, err := NewAssetRepository(db).Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)

	ident, err := NewIdentityRepository(db).FindByName(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, owner, ident.Index)
}

func TestFileDBEnforcesForeignKeysOnEveryConnection(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RunMigrations())

	ctx := context.Background()
	c1, err := db.Conn(ctx)
	require.NoError(t, err)
	defer c1.Close()
	c2, err := db.Conn(ctx)
	require.NoError(t, err)
	defer c2.Close()

	for _, c := range []*sql.Conn{c1, c2} {
		var enabled int
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
		require.Equal(t, 1, enabled)
	}
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestIdentityIndexZeroRejected(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Exec(`INSERT INTO identities (idx, credential, display_name) VALUES (0, 'c', 'n')`)
	require.Error(t, err)
}

func TestUpdateRollsBackOnError(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewIdentityRepository(db)
	boom := errors.New("boom")

	err := db.Update(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.Create(ctx, &identity.Identity{Credential: "c", DisplayName: "alice"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestUpdateCommits(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewIdentityRepository(db)

	err := db.Update(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, &identity.Identity{Credential: "c", DisplayName: "alice"})
	})
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

func TestNestedTransactionsJoinOuter(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewIdentityRepository(db)

	err := db.Update(ctx, func(ctx context.Context) error {
		if err := db.Update(ctx, func(ctx context.Context) error {
			return repo.Create(ctx, &identity.Identity{Credential: "c", DisplayName: "alice"})
		}); err != nil {
			return err
		}
		return db.View(ctx, func(ctx context.Context) error {
			count, err := repo.Count(ctx)
			require.NoError(t, err)
			require.Equal(t, uint64(1), count)
			return nil
		})
	})
	require.NoError(t, err)
}

func TestUpdateInsideViewFails(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	err := db.View(ctx, func(ctx context.Context) error {
		return db.Update(ctx, func(ctx context.Context) error { return nil })
	})
	require.Error(t, err)
}
