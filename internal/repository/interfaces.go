package repository

import "context"

// Transactor runs work against a consistent view of the registries.
//
// Update is exclusive: at most one Update runs at a time and its writes become
// visible all at once when fn returns nil. View may run concurrently with other
// Views but never observes a partially applied Update.
type Transactor interface {
	Update(ctx context.Context, fn func(ctx context.Context) error) error
	View(ctx context.Context, fn func(ctx context.Context) error) error
}
