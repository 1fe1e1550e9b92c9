// Package query joins registry records with identity names for display.
// Every call reads one consistent snapshot and performs no authorization.
package query

import (
	"context"

	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/repository"
)

// Service serves the enriched read views.
type Service struct {
	assets  AssetReader
	records RecordReader
	names   NameResolver
	tx      repository.Transactor
}

// NewService creates a new query service.
func NewService(assets AssetReader, records RecordReader, names NameResolver, tx repository.Transactor) *Service {
	return &Service{assets: assets, records: records, names: names, tx: tx}
}

// ListAssets returns every asset in creation order.
func (s *Service) ListAssets(ctx context.Context) ([]AssetView, error) {
	var views []AssetView
	err := s.tx.View(ctx, func(ctx context.Context) error {
		list, err := s.assets.List(ctx)
		if err != nil {
			return err
		}
		views = make([]AssetView, 0, len(list))
		for _, a := range list {
			created, deleted, err := s.namePair(ctx, a.CreatedBy, a.DeletedBy)
			if err != nil {
				return err
			}
			views = append(views, AssetView{Asset: a, CreatedByName: created, DeletedByName: deleted})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// GetAsset returns one asset view.
func (s *Service) GetAsset(ctx context.Context, index uint64) (*AssetView, error) {
	var view *AssetView
	err := s.tx.View(ctx, func(ctx context.Context) error {
		a, err := s.assets.Get(ctx, index)
		if err != nil {
			return err
		}
		created, deleted, err := s.namePair(ctx, a.CreatedBy, a.DeletedBy)
		if err != nil {
			return err
		}
		view = &AssetView{Asset: *a, CreatedByName: created, DeletedByName: deleted}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetAssetForecasts returns the forecasts referenced by the asset, in the
// order they were added.
func (s *Service) GetAssetForecasts(ctx context.Context, index uint64) ([]ForecastView, error) {
	var views []ForecastView
	err := s.tx.View(ctx, func(ctx context.Context) error {
		a, err := s.assets.Get(ctx, index)
		if err != nil {
			return err
		}
		list, err := s.records.Forecasts(ctx, a.ForecastRefs)
		if err != nil {
			return err
		}
		views = make([]ForecastView, 0, len(list))
		for _, f := range list {
			created, deleted, err := s.namePair(ctx, f.CreatedBy, f.DeletedBy)
			if err != nil {
				return err
			}
			views = append(views, ForecastView{Forecast: f, CreatedByName: created, DeletedByName: deleted})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// GetAssetActuals returns the actuals referenced by the asset, in the order
// they were added.
func (s *Service) GetAssetActuals(ctx context.Context, index uint64) ([]ActualView, error) {
	var views []ActualView
	err := s.tx.View(ctx, func(ctx context.Context) error {
		a, err := s.assets.Get(ctx, index)
		if err != nil {
			return err
		}
		list, err := s.records.Actuals(ctx, a.ActualRefs)
		if err != nil {
			return err
		}
		views = make([]ActualView, 0, len(list))
		for _, r := range list {
			created, deleted, err := s.namePair(ctx, r.CreatedBy, r.DeletedBy)
			if err != nil {
				return err
			}
			views = append(views, ActualView{Actual: r, CreatedByName: created, DeletedByName: deleted})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *Service) namePair(ctx context.Context, createdBy, deletedBy identity.ID) (string, string, error) {
	created, err := s.names.NameOf(ctx, createdBy)
	if err != nil {
		return "", "", err
	}
	deleted, err := s.names.NameOf(ctx, deletedBy)
	if err != nil {
		return "", "", err
	}
	return created, deleted, nil
}
