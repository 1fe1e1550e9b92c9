package activity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/assetledger/internal/pubsub"
	"github.com/rpggio/assetledger/internal/repository"
)

// Service journals outcome entries and fans them out to live subscribers.
type Service struct {
	repo   Repository
	tx     repository.Transactor
	broker *pubsub.Broker[Entry]
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, tx repository.Transactor, broker *pubsub.Broker[Entry], logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, tx: tx, broker: broker, logger: logger}
}

// Record appends entry to the journal in its own transaction, then
// publishes it. Callers invoke Record after their own write has committed.
func (s *Service) Record(ctx context.Context, entry Entry) error {
	if entry.Kind == "" {
		return ErrInvalidInput
	}
	if entry.EventID == "" {
		entry.EventID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	err := s.tx.Update(ctx, func(ctx context.Context) error {
		return s.repo.Log(ctx, &entry)
	})
	if err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}

	if s.broker != nil {
		s.broker.Publish(pubsub.EventType(entry.Kind), entry)
	}
	s.logger.Debug("activity recorded", "kind", entry.Kind, "event_id", entry.EventID, "success", entry.Success)
	return nil
}

// GetRecentActivity lists journal entries newest first.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListActivityOptions) ([]Entry, error) {
	var entries []Entry
	err := s.tx.View(ctx, func(ctx context.Context) error {
		var err error
		entries, err = s.repo.List(ctx, opts)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}

// Subscribe streams entries recorded after the call until ctx is done.
func (s *Service) Subscribe(ctx context.Context) <-chan pubsub.Event[Entry] {
	if s.broker == nil {
		ch := make(chan pubsub.Event[Entry])
		close(ch)
		return ch
	}
	return s.broker.Subscribe(ctx)
}
