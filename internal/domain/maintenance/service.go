package maintenance

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

// Service appends to the forecast and actual ledgers and keeps each owning
// asset's reference list in step.
type Service struct {
	forecasts  ForecastRepository
	actuals    ActualRepository
	assets     AssetRefs
	identities IdentityResolver
	tx         repository.Transactor
	journal    Journal
	logger     *slog.Logger
}

// NewService creates a new maintenance service.
func NewService(
	forecasts ForecastRepository,
	actuals ActualRepository,
	assets AssetRefs,
	identities IdentityResolver,
	tx repository.Transactor,
	journal Journal,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		forecasts:  forecasts,
		actuals:    actuals,
		assets:     assets,
		identities: identities,
		tx:         tx,
		journal:    journal,
		logger:     logger,
	}
}

// AddForecastBatch appends one forecast per entry. Processing stops at the
// first entry naming a missing asset; entries before it stay committed and
// the failing position is reported in FailedAt.
func (s *Service) AddForecastBatch(ctx context.Context, credential string, entries []ForecastEntry) (BatchOutcome, error) {
	if err := ValidateForecasts(entries); err != nil {
		return BatchOutcome{}, err
	}

	var (
		out    BatchOutcome
		caller identity.ID
	)
	err := s.tx.Update(ctx, func(ctx context.Context) error {
		out = BatchOutcome{Entries: make([]RecordOutcome, 0, len(entries))}

		var err error
		caller, err = s.identities.Resolve(ctx, credential)
		if err != nil {
			return fmt.Errorf("resolving caller: %w", err)
		}
		if !caller.Valid() {
			out.Outcome = outcome.Unauthorized()
			if len(entries) > 0 {
				out.fail(0, entries[0].AssetIndex, outcome.Unauthorized())
			}
			return nil
		}

		count, err := s.assets.Count(ctx)
		if err != nil {
			return fmt.Errorf("counting assets: %w", err)
		}

		for i, e := range entries {
			if e.AssetIndex >= count {
				out.Outcome = outcome.NotFound()
				out.fail(i, e.AssetIndex, outcome.NotFound())
				return nil
			}

			f := &Forecast{ForecastEntry: e, CreatedBy: caller}
			if err := s.forecasts.Create(ctx, f); err != nil {
				return fmt.Errorf("creating forecast: %w", err)
			}
			if err := s.assets.AppendForecastRef(ctx, e.AssetIndex, f.Index); err != nil {
				return fmt.Errorf("linking forecast: %w", err)
			}
			index := f.Index
			out.Entries = append(out.Entries, RecordOutcome{
				Outcome:    outcome.Succeeded(),
				Position:   i,
				AssetIndex: e.AssetIndex,
				Index:      &index,
			})
			out.Committed++
		}

		out.Outcome = outcome.Succeeded()
		return nil
	})
	if err != nil {
		return BatchOutcome{}, err
	}

	s.logger.Info("add forecast batch", "caller", caller, "entries", len(entries), "committed", out.Committed, "reason", out.Reason)
	if len(out.Entries) == 0 && !out.Success {
		entry := activity.FromOutcome(activity.KindForecastAdded, credential, uint64(caller), out.Outcome)
		entry.Summary = "add forecast batch rejected"
		s.notify(ctx, entry)
	}
	for _, ro := range out.Entries {
		s.notify(ctx, recordEntry(activity.KindForecastAdded, credential, caller, ro))
	}

	return out, nil
}

// AddActual appends a single actual record to its asset.
func (s *Service) AddActual(ctx context.Context, credential string, e ActualEntry) (RecordOutcome, error) {
	if err := ValidateActual(e); err != nil {
		return RecordOutcome{}, err
	}

	var (
		out    RecordOutcome
		caller identity.ID
	)
	err := s.tx.Update(ctx, func(ctx context.Context) error {
		out = RecordOutcome{AssetIndex: e.AssetIndex}

		var err error
		caller, err = s.identities.Resolve(ctx, credential)
		if err != nil {
			return fmt.Errorf("resolving caller: %w", err)
		}
		if !caller.Valid() {
			out.Outcome = outcome.Unauthorized()
			return nil
		}

		count, err := s.assets.Count(ctx)
		if err != nil {
			return fmt.Errorf("counting assets: %w", err)
		}
		if e.AssetIndex >= count {
			out.Outcome = outcome.NotFound()
			return nil
		}

		a := &Actual{ActualEntry: e, CreatedBy: caller}
		if err := s.actuals.Create(ctx, a); err != nil {
			return fmt.Errorf("creating actual: %w", err)
		}
		if err := s.assets.AppendActualRef(ctx, e.AssetIndex, a.Index); err != nil {
			return fmt.Errorf("linking actual: %w", err)
		}
		index := a.Index
		out.Outcome = outcome.Succeeded()
		out.Index = &index
		return nil
	})
	if err != nil {
		return RecordOutcome{}, err
	}

	s.logger.Info("add actual", "caller", caller, "asset", e.AssetIndex, "success", out.Success, "reason", out.Reason)
	s.notify(ctx, recordEntry(activity.KindActualAdded, credential, caller, out))

	return out, nil
}

// SoftDeleteForecast marks a forecast record deleted by the caller.
func (s *Service) SoftDeleteForecast(ctx context.Context, credential string, index uint64) (outcome.Outcome, error) {
	return s.softDelete(ctx, credential, index, activity.KindForecastDeleted, s.forecasts.Count, s.forecasts.MarkDeleted)
}

// SoftDeleteActual marks an actual record deleted by the caller.
func (s *Service) SoftDeleteActual(ctx context.Context, credential string, index uint64) (outcome.Outcome, error) {
	return s.softDelete(ctx, credential, index, activity.KindActualDeleted, s.actuals.Count, s.actuals.MarkDeleted)
}

func (s *Service) softDelete(
	ctx context.Context,
	credential string,
	index uint64,
	kind activity.Kind,
	count func(context.Context) (uint64, error),
	mark func(context.Context, uint64, identity.ID) error,
) (outcome.Outcome, error) {
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

		n, err := count(ctx)
		if err != nil {
			return fmt.Errorf("counting records: %w", err)
		}
		if index >= n {
			out = outcome.NotFound()
			return nil
		}
		if err := mark(ctx, index, caller); err != nil {
			return fmt.Errorf("deleting record: %w", err)
		}
		out = outcome.Succeeded()
		return nil
	})
	if err != nil {
		return outcome.Outcome{}, err
	}

	s.logger.Info("soft delete record", "kind", kind, "caller", caller, "index", index, "success", out.Success, "reason", out.Reason)
	entry := activity.FromOutcome(kind, credential, uint64(caller), out)
	entry.RecordIndex = &index
	entry.Summary = fmt.Sprintf("%s %d", kind, index)
	s.notify(ctx, entry)

	return out, nil
}

// Forecasts returns the forecast records at indices, in order.
func (s *Service) Forecasts(ctx context.Context, indices []uint64) ([]Forecast, error) {
	var list []Forecast
	err := s.tx.View(ctx, func(ctx context.Context) error {
		var err error
		list, err = s.forecasts.GetMany(ctx, indices)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting forecasts: %w", err)
	}
	return list, nil
}

// Actuals returns the actual records at indices, in order.
func (s *Service) Actuals(ctx context.Context, indices []uint64) ([]Actual, error) {
	var list []Actual
	err := s.tx.View(ctx, func(ctx context.Context) error {
		var err error
		list, err = s.actuals.GetMany(ctx, indices)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting actuals: %w", err)
	}
	return list, nil
}

func (o *BatchOutcome) fail(position int, assetIndex uint64, reason outcome.Outcome) {
	o.FailedAt = &position
	o.Entries = append(o.Entries, RecordOutcome{
		Outcome:    reason,
		Position:   position,
		AssetIndex: assetIndex,
	})
}

func recordEntry(kind activity.Kind, credential string, caller identity.ID, ro RecordOutcome) activity.Entry {
	entry := activity.FromOutcome(kind, credential, uint64(caller), ro.Outcome)
	assetIndex := ro.AssetIndex
	entry.AssetIndex = &assetIndex
	entry.RecordIndex = ro.Index
	if ro.Success {
		entry.Summary = fmt.Sprintf("%s %d on asset %d", kind, *ro.Index, assetIndex)
	} else {
		entry.Summary = fmt.Sprintf("%s rejected at position %d", kind, ro.Position)
	}
	return entry
}

func (s *Service) notify(ctx context.Context, entry activity.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to journal outcome", "kind", entry.Kind, "error", err)
	}
}
