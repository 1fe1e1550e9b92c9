package maintenance_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/assetledger/internal/domain/activity"
	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/domain/maintenance"
	"github.com/rpggio/assetledger/internal/domain/outcome"
	"github.com/rpggio/assetledger/internal/repository"
	"github.com/rpggio/assetledger/internal/repository/mocks"
)

type fixture struct {
	forecasts *mocks.ForecastRepository
	actuals   *mocks.ActualRepository
	assets    *mocks.AssetRepository
	resolver  *mocks.IdentityResolver
	journal   *mocks.Journal
	svc       *maintenance.Service
}

func newFixture() *fixture {
	f := &fixture{
		forecasts: &mocks.ForecastRepository{},
		actuals:   &mocks.ActualRepository{},
		assets:    &mocks.AssetRepository{},
		resolver:  &mocks.IdentityResolver{},
		journal:   &mocks.Journal{},
	}
	f.resolver.On("Resolve", mock.Anything, "key-a").Return(identity.ID(1), nil)
	f.resolver.On("Resolve", mock.Anything, "unknown").Return(identity.None, nil)
	f.journal.On("Record", mock.Anything, mock.Anything).Return(nil)
	f.svc = maintenance.NewService(f.forecasts, f.actuals, f.assets, f.resolver, mocks.Transactor{}, f.journal, nil)
	return f
}

// sequentialForecasts makes Create assign 0, 1, 2, ...
func (f *fixture) sequentialForecasts() {
	next := uint64(0)
	f.forecasts.On("Create", mock.Anything, mock.AnythingOfType("*maintenance.Forecast")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*maintenance.Forecast).Index = next
			next++
		}).
		Return(nil)
	f.assets.On("AppendForecastRef", mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func forecast(assetIndex uint64, cost string) maintenance.ForecastEntry {
	return maintenance.ForecastEntry{AssetIndex: assetIndex, Cost: decimal.RequireFromString(cost)}
}

func TestAddForecastBatch_AllCommitted(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.assets.On("Count", mock.Anything).Return(uint64(2), nil)
	f.sequentialForecasts()

	out, err := f.svc.AddForecastBatch(ctx, "key-a", []maintenance.ForecastEntry{
		forecast(1, "10"), forecast(0, "20"), forecast(1, "30"),
	})
	require.NoError(t, err)
	require.Equal(t, outcome.Succeeded(), out.Outcome)
	require.Equal(t, 3, out.Committed)
	require.Nil(t, out.FailedAt)
	require.Len(t, out.Entries, 3)
	for i, e := range out.Entries {
		require.True(t, e.Success)
		require.Equal(t, i, e.Position)
		require.Equal(t, uint64(i), *e.Index)
	}

	f.assets.AssertCalled(t, "AppendForecastRef", mock.Anything, uint64(1), uint64(0))
	f.assets.AssertCalled(t, "AppendForecastRef", mock.Anything, uint64(0), uint64(1))
	f.assets.AssertCalled(t, "AppendForecastRef", mock.Anything, uint64(1), uint64(2))
	f.journal.AssertNumberOfCalls(t, "Record", 3)
}

func TestAddForecastBatch_StopsAtFirstMissingAsset(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.assets.On("Count", mock.Anything).Return(uint64(2), nil)
	f.sequentialForecasts()

	out, err := f.svc.AddForecastBatch(ctx, "key-a", []maintenance.ForecastEntry{
		forecast(0, "10"), forecast(5, "20"), forecast(1, "30"),
	})
	require.NoError(t, err)
	require.Equal(t, outcome.NotFound(), out.Outcome)
	require.Equal(t, 1, out.Committed)
	require.NotNil(t, out.FailedAt)
	require.Equal(t, 1, *out.FailedAt)
	require.Len(t, out.Entries, 2)
	require.True(t, out.Entries[0].Success)
	require.False(t, out.Entries[1].Success)
	require.Nil(t, out.Entries[1].Index)
	require.Equal(t, uint64(5), out.Entries[1].AssetIndex)

	f.forecasts.AssertNumberOfCalls(t, "Create", 1)
	f.journal.AssertNumberOfCalls(t, "Record", 2)
}

func TestAddForecastBatch_Unauthorized(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	out, err := f.svc.AddForecastBatch(ctx, "unknown", []maintenance.ForecastEntry{forecast(0, "10")})
	require.NoError(t, err)
	require.Equal(t, outcome.Unauthorized(), out.Outcome)
	require.Zero(t, out.Committed)
	require.Equal(t, 0, *out.FailedAt)
	f.forecasts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.assets.AssertNotCalled(t, "Count", mock.Anything)
}

func TestAddForecastBatch_Empty(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.assets.On("Count", mock.Anything).Return(uint64(0), nil)

	out, err := f.svc.AddForecastBatch(ctx, "key-a", nil)
	require.NoError(t, err)
	require.True(t, out.Success)
	require.Zero(t, out.Committed)
	require.Empty(t, out.Entries)
	f.journal.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestAddForecastBatch_NegativeCost(t *testing.T) {
	f := newFixture()

	_, err := f.svc.AddForecastBatch(context.Background(), "key-a", []maintenance.ForecastEntry{forecast(0, "-1")})
	require.ErrorIs(t, err, maintenance.ErrInvalidInput)
}

func TestAddActual(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.assets.On("Count", mock.Anything).Return(uint64(1), nil)
	f.actuals.On("Create", mock.Anything, mock.AnythingOfType("*maintenance.Actual")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*maintenance.Actual).Index = 4
		}).
		Return(nil)
	f.assets.On("AppendActualRef", mock.Anything, uint64(0), uint64(4)).Return(nil)

	out, err := f.svc.AddActual(ctx, "key-a", maintenance.ActualEntry{AssetIndex: 0, Supplier: "Acme"})
	require.NoError(t, err)
	require.True(t, out.Success)
	require.Equal(t, uint64(4), *out.Index)

	out, err = f.svc.AddActual(ctx, "key-a", maintenance.ActualEntry{AssetIndex: 1})
	require.NoError(t, err)
	require.Equal(t, outcome.NotFound(), out.Outcome)
	require.Nil(t, out.Index)

	out, err = f.svc.AddActual(ctx, "unknown", maintenance.ActualEntry{AssetIndex: 0})
	require.NoError(t, err)
	require.Equal(t, outcome.Unauthorized(), out.Outcome)

	f.actuals.AssertNumberOfCalls(t, "Create", 1)
	f.journal.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(e activity.Entry) bool {
		return e.Kind == activity.KindActualAdded && e.RecordIndex != nil && *e.RecordIndex == 4
	}))
}

func TestSoftDeleteForecastAndActual(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.forecasts.On("Count", mock.Anything).Return(uint64(2), nil)
	f.forecasts.On("MarkDeleted", mock.Anything, uint64(1), identity.ID(1)).Return(nil)
	f.actuals.On("Count", mock.Anything).Return(uint64(0), nil)

	out, err := f.svc.SoftDeleteForecast(ctx, "key-a", 1)
	require.NoError(t, err)
	require.Equal(t, outcome.Succeeded(), out)

	out, err = f.svc.SoftDeleteForecast(ctx, "unknown", 1)
	require.NoError(t, err)
	require.Equal(t, outcome.Unauthorized(), out)

	out, err = f.svc.SoftDeleteActual(ctx, "key-a", 0)
	require.NoError(t, err)
	require.Equal(t, outcome.NotFound(), out)

	f.actuals.AssertNotCalled(t, "MarkDeleted", mock.Anything, mock.Anything, mock.Anything)
}

func TestForecasts_MissingIndex(t *testing.T) {
	f := newFixture()
	f.forecasts.On("GetMany", mock.Anything, []uint64{0, 3}).Return(nil, repository.ErrNotFound)

	_, err := f.svc.Forecasts(context.Background(), []uint64{0, 3})
	require.ErrorIs(t, err, maintenance.ErrRecordNotFound)
}
