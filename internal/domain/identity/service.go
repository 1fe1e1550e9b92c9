package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/rpggio/assetledger/internal/domain/activity"
	"github.com/rpggio/assetledger/internal/domain/outcome"
	"github.com/rpggio/assetledger/internal/repository"
)

const nameCacheCleanupInterval = 30 * time.Minute

// Service handles identity registration and caller resolution.
type Service struct {
	identities Repository
	tx         repository.Transactor
	journal    Journal
	names      *gocache.Cache
	logger     *slog.Logger
}

// NewService creates a new identity service. A nameTTL of zero caches
// display names for the lifetime of the process; identities are immutable so
// entries never go stale.
func NewService(identities Repository, tx repository.Transactor, journal Journal, nameTTL time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if nameTTL <= 0 {
		nameTTL = gocache.NoExpiration
	}
	return &Service{
		identities: identities,
		tx:         tx,
		journal:    journal,
		names:      gocache.New(nameTTL, nameCacheCleanupInterval),
		logger:     logger,
	}
}

// Register binds credential to name. A name already in use is reported as a
// DuplicateName outcome. One credential may register several names.
func (s *Service) Register(ctx context.Context, credential, name string) (RegisterOutcome, error) {
	if err := ValidateName(name); err != nil {
		return RegisterOutcome{}, err
	}
	if credential == "" {
		out := RegisterOutcome{Reason: outcome.ReasonUnauthorized}
		s.notify(ctx, credential, name, out)
		return out, nil
	}

	var out RegisterOutcome
	err := s.tx.Update(ctx, func(ctx context.Context) error {
		_, err := s.identities.FindByName(ctx, name)
		if err == nil {
			out = RegisterOutcome{Reason: outcome.ReasonDuplicateName}
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("finding identity by name: %w", err)
		}

		ident := &Identity{Credential: credential, DisplayName: name}
		if err := s.identities.Create(ctx, ident); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				out = RegisterOutcome{Reason: outcome.ReasonDuplicateName}
				return nil
			}
			return fmt.Errorf("creating identity: %w", err)
		}
		out = RegisterOutcome{Registered: true, Index: ident.Index}
		return nil
	})
	if err != nil {
		return RegisterOutcome{}, err
	}

	s.notify(ctx, credential, name, out)
	return out, nil
}

// Resolve returns the identity bound to credential, or None.
func (s *Service) Resolve(ctx context.Context, credential string) (ID, error) {
	if credential == "" {
		return None, nil
	}

	id := None
	err := s.tx.View(ctx, func(ctx context.Context) error {
		ident, err := s.identities.FindByCredential(ctx, credential)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("resolving credential: %w", err)
		}
		id = ident.Index
		return nil
	})
	return id, err
}

// NameOf returns the display name for id, or "" for None or an unassigned index.
func (s *Service) NameOf(ctx context.Context, id ID) (string, error) {
	if !id.Valid() {
		return "", nil
	}
	key := strconv.FormatUint(uint64(id), 10)
	if name, ok := s.names.Get(key); ok {
		return name.(string), nil
	}

	var name string
	err := s.tx.View(ctx, func(ctx context.Context) error {
		ident, err := s.identities.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("loading identity: %w", err)
		}
		name = ident.DisplayName
		return nil
	})
	if err != nil {
		return "", err
	}
	if name != "" {
		s.names.SetDefault(key, name)
	}
	return name, nil
}

// Get returns the identity at id.
func (s *Service) Get(ctx context.Context, id ID) (*Identity, error) {
	if !id.Valid() {
		return nil, ErrIdentityNotFound
	}
	var ident *Identity
	err := s.tx.View(ctx, func(ctx context.Context) error {
		var err error
		ident, err = s.identities.Get(ctx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting identity: %w", err)
	}
	return ident, nil
}

// Whoami returns the identity bound to credential. The zero Identity is
// returned when the credential is not registered.
func (s *Service) Whoami(ctx context.Context, credential string) (Identity, error) {
	id, err := s.Resolve(ctx, credential)
	if err != nil || !id.Valid() {
		return Identity{}, err
	}
	ident, err := s.Get(ctx, id)
	if err != nil {
		return Identity{}, err
	}
	return *ident, nil
}

// List returns all identities in index order.
func (s *Service) List(ctx context.Context) ([]Identity, error) {
	var list []Identity
	err := s.tx.View(ctx, func(ctx context.Context) error {
		var err error
		list, err = s.identities.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing identities: %w", err)
	}
	return list, nil
}

// Count returns the number of registered identities.
func (s *Service) Count(ctx context.Context) (uint64, error) {
	var n uint64
	err := s.tx.View(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.identities.Count(ctx)
		return err
	})
	return n, err
}

func (s *Service) notify(ctx context.Context, credential, name string, out RegisterOutcome) {
	s.logger.Info("register identity", "index", out.Index, "registered", out.Registered, "reason", out.Reason)
	if s.journal == nil {
		return
	}
	entry := activity.Entry{
		Kind:             activity.KindIdentityRegistered,
		Credential:       credential,
		Identity:         uint64(out.Index),
		Reason:           out.Reason,
		Success:          out.Registered,
		CallerAuthorized: out.Reason != outcome.ReasonUnauthorized,
		Summary:          fmt.Sprintf("register identity %q", name),
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to journal outcome", "kind", entry.Kind, "error", err)
	}
}
