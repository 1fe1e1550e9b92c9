// Package app wires the registry services over a SQLite store.
package app

import (
	"io"
	"log/slog"
	"time"

	"github.com/rpggio/assetledger/internal/domain/activity"
	"github.com/rpggio/assetledger/internal/domain/asset"
	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/domain/maintenance"
	"github.com/rpggio/assetledger/internal/domain/query"
	"github.com/rpggio/assetledger/internal/pubsub"
	"github.com/rpggio/assetledger/internal/sqlite"
)

// Options tunes service construction.
type Options struct {
	NameCacheTTL time.Duration
	Logger       *slog.Logger
}

// App holds the wired services.
type App struct {
	Identities  *identity.Service
	Assets      *asset.Service
	Maintenance *maintenance.Service
	Query       *query.Service
	Activity    *activity.Service

	broker *pubsub.Broker[activity.Entry]
}

// New builds every service against db.
func New(db *sqlite.DB, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	identityRepo := sqlite.NewIdentityRepository(db)
	assetRepo := sqlite.NewAssetRepository(db)
	forecastRepo := sqlite.NewForecastRepository(db)
	actualRepo := sqlite.NewActualRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	broker := pubsub.NewBroker[activity.Entry]()
	activitySvc := activity.NewService(activityRepo, db, broker, logger)
	identitySvc := identity.NewService(identityRepo, db, activitySvc, opts.NameCacheTTL, logger)
	assetSvc := asset.NewService(assetRepo, identitySvc, db, activitySvc, logger)
	maintenanceSvc := maintenance.NewService(forecastRepo, actualRepo, assetRepo, identitySvc, db, activitySvc, logger)
	querySvc := query.NewService(assetSvc, maintenanceSvc, identitySvc, db)

	return &App{
		Identities:  identitySvc,
		Assets:      assetSvc,
		Maintenance: maintenanceSvc,
		Query:       querySvc,
		Activity:    activitySvc,
		broker:      broker,
	}
}

// Close stops live activity subscriptions.
func (a *App) Close() {
	a.broker.Close()
}
