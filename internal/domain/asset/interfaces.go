package asset

import (
	"context"

	"github.com/rpggio/assetledger/internal/domain/activity"
	"github.com/rpggio/assetledger/internal/domain/identity"
)

// Repository provides persistence for assets and their reference lists.
type Repository interface {
	// Create stores a under the next free index and sets a.Index.
	Create(ctx context.Context, a *Asset) error
	Get(ctx context.Context, index uint64) (*Asset, error)
	List(ctx context.Context) ([]Asset, error)
	Count(ctx context.Context) (uint64, error)
	MarkDeleted(ctx context.Context, index uint64, by identity.ID) error
	MarkReplaced(ctx context.Context, index uint64, by identity.ID, successor uint64) error
	AppendForecastRef(ctx context.Context, assetIndex, forecastIndex uint64) error
	AppendActualRef(ctx context.Context, assetIndex, actualIndex uint64) error
}

// IdentityResolver maps a caller credential to its identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (identity.ID, error)
}

// Journal receives an entry for every mutating call.
type Journal interface {
	Record(ctx context.Context, entry activity.Entry) error
}
