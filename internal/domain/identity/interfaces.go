package identity

import (
	"context"

	"github.com/rpggio/assetledger/internal/domain/activity"
)

// Repository provides persistence for identities.
type Repository interface {
	// Create stores ident under the next free index and sets ident.Index.
	Create(ctx context.Context, ident *Identity) error
	Get(ctx context.Context, id ID) (*Identity, error)
	// FindByCredential returns the lowest-indexed identity bound to credential.
	FindByCredential(ctx context.Context, credential string) (*Identity, error)
	FindByName(ctx context.Context, name string) (*Identity, error)
	List(ctx context.Context) ([]Identity, error)
	Count(ctx context.Context) (uint64, error)
}

// Journal receives an entry for every registration attempt.
type Journal interface {
	Record(ctx context.Context, entry activity.Entry) error
}
