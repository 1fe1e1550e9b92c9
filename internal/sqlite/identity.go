package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/repository"
)

// IdentityRepository implements identity.Repository for SQLite
type IdentityRepository struct {
	db *DB
}

// NewIdentityRepository creates a new IdentityRepository
func NewIdentityRepository(db *DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Create inserts ident at the next index; index 0 is never assigned.
func (r *IdentityRepository) Create(ctx context.Context, ident *identity.Identity) error {
	n, err := r.db.count(ctx, "identities")
	if err != nil {
		return err
	}
	next := identity.ID(n + 1)

	_, err = r.db.conn(ctx).ExecContext(ctx,
		`INSERT INTO identities (idx, credential, display_name) VALUES (?, ?, ?)`,
		int64(next), ident.Credential, ident.DisplayName,
	)
	if err != nil {
		return translate(err, "create identity")
	}

	ident.Index = next
	return nil
}

// Get retrieves an identity by index
func (r *IdentityRepository) Get(ctx context.Context, id identity.ID) (*identity.Identity, error) {
	return r.scanOne(ctx, `SELECT idx, credential, display_name FROM identities WHERE idx = ?`, int64(id))
}

// FindByCredential returns the first identity registered for credential
func (r *IdentityRepository) FindByCredential(ctx context.Context, credential string) (*identity.Identity, error) {
	return r.scanOne(ctx, `
		SELECT idx, credential, display_name
		FROM identities
		WHERE credential = ?
		ORDER BY idx ASC
		LIMIT 1
	`, credential)
}

// FindByName returns the identity holding name
func (r *IdentityRepository) FindByName(ctx context.Context, name string) (*identity.Identity, error) {
	return r.scanOne(ctx, `SELECT idx, credential, display_name FROM identities WHERE display_name = ?`, name)
}

// List returns all identities in index order
func (r *IdentityRepository) List(ctx context.Context) ([]identity.Identity, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, `SELECT idx, credential, display_name FROM identities ORDER BY idx ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	defer rows.Close()

	var list []identity.Identity
	for rows.Next() {
		var ident identity.Identity
		var idx int64
		if err := rows.Scan(&idx, &ident.Credential, &ident.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan identity: %w", err)
		}
		ident.Index = identity.ID(idx)
		list = append(list, ident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating identity rows: %w", err)
	}
	return list, nil
}

// Count returns the number of registered identities
func (r *IdentityRepository) Count(ctx context.Context) (uint64, error) {
	return r.db.count(ctx, "identities")
}

func (r *IdentityRepository) scanOne(ctx context.Context, query string, args ...any) (*identity.Identity, error) {
	var ident identity.Identity
	var idx int64
	err := r.db.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&idx, &ident.Credential, &ident.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	ident.Index = identity.ID(idx)
	return &ident, nil
}
