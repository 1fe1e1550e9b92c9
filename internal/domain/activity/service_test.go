package activity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/assetledger/internal/domain/activity"
	"github.com/rpggio/assetledger/internal/domain/outcome"
	"github.com/rpggio/assetledger/internal/pubsub"
	"github.com/rpggio/assetledger/internal/repository/mocks"
)

func TestActivityService_RecordFillsAndPublishes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &mocks.ActivityRepository{}
	repo.On("Log", mock.Anything, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Kind == activity.KindAssetCreated && e.EventID != "" && !e.CreatedAt.IsZero()
	})).Return(nil).Once()

	broker := pubsub.NewBroker[activity.Entry]()
	defer broker.Close()
	svc := activity.NewService(repo, mocks.Transactor{}, broker, nil)
	events := svc.Subscribe(ctx)

	entry := activity.FromOutcome(activity.KindAssetCreated, "key-a", 1, outcome.Succeeded())
	require.NoError(t, svc.Record(ctx, entry))

	select {
	case ev := <-events:
		require.Equal(t, pubsub.EventType(activity.KindAssetCreated), ev.Type)
		require.Equal(t, "key-a", ev.Payload.Credential)
		require.True(t, ev.Payload.Success)
		require.NotEmpty(t, ev.Payload.EventID)
	case <-time.After(time.Second):
		t.Fatal("expected published entry")
	}
	repo.AssertExpectations(t)
}

func TestActivityService_RecordKeepsProvidedIdentifiers(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.EventID == "evt-1" && e.CreatedAt.Equal(at)
	})).Return(nil).Once()

	svc := activity.NewService(repo, mocks.Transactor{}, nil, nil)
	require.NoError(t, svc.Record(ctx, activity.Entry{
		EventID:   "evt-1",
		Kind:      activity.KindForecastAdded,
		CreatedAt: at,
	}))
	repo.AssertExpectations(t)
}

func TestActivityService_RecordRequiresKind(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	svc := activity.NewService(repo, mocks.Transactor{}, nil, nil)

	err := svc.Record(context.Background(), activity.Entry{})
	require.ErrorIs(t, err, activity.ErrInvalidInput)
	repo.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
}

func TestActivityService_RecordWrapsRepositoryError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.Anything).Return(boom)

	svc := activity.NewService(repo, mocks.Transactor{}, nil, nil)
	err := svc.Record(ctx, activity.Entry{Kind: activity.KindActualAdded})
	require.ErrorIs(t, err, boom)
}

func TestActivityService_GetRecentActivity(t *testing.T) {
	ctx := context.Background()
	kind := activity.KindAssetDeleted
	opts := activity.ListActivityOptions{Kind: &kind, Limit: 10}

	repo := &mocks.ActivityRepository{}
	repo.On("List", ctx, opts).Return([]activity.Entry{{ID: 2, Kind: kind}, {ID: 1, Kind: kind}}, nil)

	svc := activity.NewService(repo, mocks.Transactor{}, nil, nil)
	entries, err := svc.GetRecentActivity(ctx, opts)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, int64(2), entries[0].ID)
}

func TestActivityService_SubscribeWithoutBroker(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, mocks.Transactor{}, nil, nil)

	_, ok := <-svc.Subscribe(context.Background())
	require.False(t, ok)
}
