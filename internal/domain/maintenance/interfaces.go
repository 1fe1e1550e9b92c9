package maintenance

import (
	"context"

	"github.com/rpggio/assetledger/internal/domain/activity"
	"github.com/rpggio/assetledger/internal/domain/identity"
)

// ForecastRepository provides persistence for the forecast ledger.
type ForecastRepository interface {
	// Create stores f under the next free index and sets f.Index.
	Create(ctx context.Context, f *Forecast) error
	// GetMany returns the records at indices, in the given order.
	GetMany(ctx context.Context, indices []uint64) ([]Forecast, error)
	Count(ctx context.Context) (uint64, error)
	MarkDeleted(ctx context.Context, index uint64, by identity.ID) error
}

// ActualRepository provides persistence for the actual ledger.
type ActualRepository interface {
	Create(ctx context.Context, a *Actual) error
	GetMany(ctx context.Context, indices []uint64) ([]Actual, error)
	Count(ctx context.Context) (uint64, error)
	MarkDeleted(ctx context.Context, index uint64, by identity.ID) error
}

// AssetRefs is the asset-side view the ledger needs: range checks and
// appending back-references.
type AssetRefs interface {
	Count(ctx context.Context) (uint64, error)
	AppendForecastRef(ctx context.Context, assetIndex, forecastIndex uint64) error
	AppendActualRef(ctx context.Context, assetIndex, actualIndex uint64) error
}

// IdentityResolver maps a caller credential to its identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (identity.ID, error)
}

// Journal receives an entry for every processed entry.
type Journal interface {
	Record(ctx context.Context, entry activity.Entry) error
}
