package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rpggio/assetledger/internal/domain/activity"
	"github.com/rpggio/assetledger/internal/domain/asset"
	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/domain/maintenance"
)

// Transactor runs callbacks inline with no isolation.
type Transactor struct{}

func (Transactor) Update(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (Transactor) View(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// IdentityRepository is a mock for identity.Repository.
type IdentityRepository struct {
	mock.Mock
}

func (m *IdentityRepository) Create(ctx context.Context, ident *identity.Identity) error {
	args := m.Called(ctx, ident)
	return args.Error(0)
}

func (m *IdentityRepository) Get(ctx context.Context, id identity.ID) (*identity.Identity, error) {
	args := m.Called(ctx, id)
	if ident, ok := args.Get(0).(*identity.Identity); ok {
		return ident, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IdentityRepository) FindByCredential(ctx context.Context, credential string) (*identity.Identity, error) {
	args := m.Called(ctx, credential)
	if ident, ok := args.Get(0).(*identity.Identity); ok {
		return ident, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IdentityRepository) FindByName(ctx context.Context, name string) (*identity.Identity, error) {
	args := m.Called(ctx, name)
	if ident, ok := args.Get(0).(*identity.Identity); ok {
		return ident, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IdentityRepository) List(ctx context.Context) ([]identity.Identity, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]identity.Identity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IdentityRepository) Count(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

// AssetRepository is a mock for asset.Repository.
type AssetRepository struct {
	mock.Mock
}

func (m *AssetRepository) Create(ctx context.Context, a *asset.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AssetRepository) Get(ctx context.Context, index uint64) (*asset.Asset, error) {
	args := m.Called(ctx, index)
	if a, ok := args.Get(0).(*asset.Asset); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AssetRepository) List(ctx context.Context) ([]asset.Asset, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]asset.Asset); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AssetRepository) Count(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *AssetRepository) MarkDeleted(ctx context.Context, index uint64, by identity.ID) error {
	args := m.Called(ctx, index, by)
	return args.Error(0)
}

func (m *AssetRepository) MarkReplaced(ctx context.Context, index uint64, by identity.ID, successor uint64) error {
	args := m.Called(ctx, index, by, successor)
	return args.Error(0)
}

func (m *AssetRepository) AppendForecastRef(ctx context.Context, assetIndex, forecastIndex uint64) error {
	args := m.Called(ctx, assetIndex, forecastIndex)
	return args.Error(0)
}

func (m *AssetRepository) AppendActualRef(ctx context.Context, assetIndex, actualIndex uint64) error {
	args := m.Called(ctx, assetIndex, actualIndex)
	return args.Error(0)
}

// ForecastRepository is a mock for maintenance.ForecastRepository.
type ForecastRepository struct {
	mock.Mock
}

func (m *ForecastRepository) Create(ctx context.Context, f *maintenance.Forecast) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *ForecastRepository) GetMany(ctx context.Context, indices []uint64) ([]maintenance.Forecast, error) {
	args := m.Called(ctx, indices)
	if list, ok := args.Get(0).([]maintenance.Forecast); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ForecastRepository) Count(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *ForecastRepository) MarkDeleted(ctx context.Context, index uint64, by identity.ID) error {
	args := m.Called(ctx, index, by)
	return args.Error(0)
}

// ActualRepository is a mock for maintenance.ActualRepository.
type ActualRepository struct {
	mock.Mock
}

func (m *ActualRepository) Create(ctx context.Context, a *maintenance.Actual) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *ActualRepository) GetMany(ctx context.Context, indices []uint64) ([]maintenance.Actual, error) {
	args := m.Called(ctx, indices)
	if list, ok := args.Get(0).([]maintenance.Actual); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActualRepository) Count(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *ActualRepository) MarkDeleted(ctx context.Context, index uint64, by identity.ID) error {
	args := m.Called(ctx, index, by)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// IdentityResolver is a mock for the credential lookup used by asset and
// maintenance services.
type IdentityResolver struct {
	mock.Mock
}

func (m *IdentityResolver) Resolve(ctx context.Context, credential string) (identity.ID, error) {
	args := m.Called(ctx, credential)
	return args.Get(0).(identity.ID), args.Error(1)
}

// Journal captures recorded activity entries.
type Journal struct {
	mock.Mock
}

func (m *Journal) Record(ctx context.Context, entry activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
