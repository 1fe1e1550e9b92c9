package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rpggio/assetledger/internal/domain/activity"
	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/domain/outcome"
	"github.com/rpggio/assetledger/internal/repository"
)

// Service handles the asset lifecycle: create, replace and soft-delete.
type Service struct {
	assets     Repository
	identities IdentityResolver
	tx         repository.Transactor
	journal    Journal
	logger     *slog.Logger
}

// NewService creates a new asset service.
func NewService(
	assets Repository,
	identities IdentityResolver,
	tx repository.Transactor,
	journal Journal,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		assets:     assets,
		identities: identities,
		tx:         tx,
		journal:    journal,
		logger:     logger,
	}
}

// CreateRequest describes an asset creation request.
type CreateRequest struct {
	Fields
	// ReplaceTarget names an existing asset retired by the new one.
	ReplaceTarget *uint64
}

// Create stores a new asset. When a replace target is given, the target is
// marked replaced by the new asset and deleted by the caller in the same
// transaction.
func (s *Service) Create(ctx context.Context, credential string, req CreateRequest) (CreateOutcome, error) {
	if err := ValidateFields(req.Fields); err != nil {
		return CreateOutcome{}, err
	}

	var (
		out    CreateOutcome
		caller identity.ID
	)
	err := s.tx.Update(ctx, func(ctx context.Context) error {
		var err error
		caller, err = s.identities.Resolve(ctx, credential)
		if err != nil {
			return fmt.Errorf("resolving caller: %w", err)
		}
		if !caller.Valid() {
			out = CreateOutcome{Outcome: outcome.Unauthorized()}
			return nil
		}

		count, err := s.assets.Count(ctx)
		if err != nil {
			return fmt.Errorf("counting assets: %w", err)
		}
		if req.ReplaceTarget != nil && *req.ReplaceTarget >= count {
			out = CreateOutcome{Outcome: outcome.NotFound()}
			return nil
		}

		a := &Asset{
			Fields:    req.Fields,
			CreatedBy: caller,
		}
		if err := s.assets.Create(ctx, a); err != nil {
			return fmt.Errorf("creating asset: %w", err)
		}

		if req.ReplaceTarget != nil {
			if err := s.assets.MarkReplaced(ctx, *req.ReplaceTarget, caller, a.Index); err != nil {
				return fmt.Errorf("retiring replaced asset: %w", err)
			}
		}

		out = CreateOutcome{
			Outcome:  outcome.Succeeded(),
			Index:    a.Index,
			Replaced: req.ReplaceTarget,
		}
		return nil
	})
	if err != nil {
		return CreateOutcome{}, err
	}

	s.logger.Info("create asset", "caller", caller, "index", out.Index, "success", out.Success, "reason", out.Reason)
	entry := activity.FromOutcome(activity.KindAssetCreated, credential, uint64(caller), out.Outcome)
	if out.Success {
		entry.AssetIndex = &out.Index
		entry.Summary = fmt.Sprintf("created asset %d", out.Index)
		if out.Replaced != nil {
			entry.Summary += fmt.Sprintf(" replacing asset %d", *out.Replaced)
		}
	} else {
		entry.AssetIndex = req.ReplaceTarget
		entry.Summary = "create asset rejected"
	}
	s.notify(ctx, entry)

	return out, nil
}

// SoftDelete marks the asset at index deleted by the caller. Any registered
// identity may delete any asset; deleting twice keeps the last caller.
func (s *Service) SoftDelete(ctx context.Context, credential string, index uint64) (outcome.Outcome, error) {
	var (
		out    outcome.Outcome
		caller identity.ID
	)
	err := s.tx.Update(ctx, func(ctx context.Context) error {
		var err error
		caller, err = s.identities.Resolve(ctx, credential)
		if err != nil {
			return fmt.Errorf("resolving caller: %w", err)
		}
		if !caller.Valid() {
			out = outcome.Unauthorized()
			return nil
		}

		count, err := s.assets.Count(ctx)
		if err != nil {
			return fmt.Errorf("counting assets: %w", err)
		}
		if index >= count {
			out = outcome.NotFound()
			return nil
		}

		if err := s.assets.MarkDeleted(ctx, index, caller); err != nil {
			return fmt.Errorf("deleting asset: %w", err)
		}
		out = outcome.Succeeded()
		return nil
	})
	if err != nil {
		return outcome.Outcome{}, err
	}

	s.logger.Info("soft delete asset", "caller", caller, "index", index, "success", out.Success, "reason", out.Reason)
	entry := activity.FromOutcome(activity.KindAssetDeleted, credential, uint64(caller), out)
	entry.AssetIndex = &index
	entry.Summary = fmt.Sprintf("delete asset %d", index)
	s.notify(ctx, entry)

	return out, nil
}

// Get returns the asset at index.
func (s *Service) Get(ctx context.Context, index uint64) (*Asset, error) {
	var a *Asset
	err := s.tx.View(ctx, func(ctx context.Context) error {
		var err error
		a, err = s.assets.Get(ctx, index)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting asset: %w", err)
	}
	return a, nil
}

// List returns every asset in index order, deleted ones included.
func (s *Service) List(ctx context.Context) ([]Asset, error) {
	var list []Asset
	err := s.tx.View(ctx, func(ctx context.Context) error {
		var err error
		list, err = s.assets.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	return list, nil
}

// Count returns the number of assets ever created.
func (s *Service) Count(ctx context.Context) (uint64, error) {
	var n uint64
	err := s.tx.View(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.assets.Count(ctx)
		return err
	})
	return n, err
}

func (s *Service) notify(ctx context.Context, entry activity.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to journal outcome", "kind", entry.Kind, "error", err)
	}
}
