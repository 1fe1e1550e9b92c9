package query

import (
	"context"

	"github.com/rpggio/assetledger/internal/domain/asset"
	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/domain/maintenance"
)

// AssetReader reads asset records.
type AssetReader interface {
	Get(ctx context.Context, index uint64) (*asset.Asset, error)
	List(ctx context.Context) ([]asset.Asset, error)
}

// RecordReader reads maintenance records by index.
type RecordReader interface {
	Forecasts(ctx context.Context, indices []uint64) ([]maintenance.Forecast, error)
	Actuals(ctx context.Context, indices []uint64) ([]maintenance.Actual, error)
}

// NameResolver renders identity references for display.
type NameResolver interface {
	NameOf(ctx context.Context, id identity.ID) (string, error)
}
