package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/assetledger/internal/domain/activity"
	"github.com/rpggio/assetledger/internal/domain/asset"
	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/domain/maintenance"
	"github.com/rpggio/assetledger/internal/domain/outcome"
	"github.com/rpggio/assetledger/internal/domain/query"
)

// IdentityService defines identity operations needed by MCP.
type IdentityService interface {
	Register(ctx context.Context, credential, name string) (identity.RegisterOutcome, error)
	Whoami(ctx context.Context, credential string) (identity.Identity, error)
	List(ctx context.Context) ([]identity.Identity, error)
}

// AssetService defines asset operations needed by MCP.
type AssetService interface {
	Create(ctx context.Context, credential string, req asset.CreateRequest) (asset.CreateOutcome, error)
	SoftDelete(ctx context.Context, credential string, index uint64) (outcome.Outcome, error)
}

// MaintenanceService defines ledger operations needed by MCP.
type MaintenanceService interface {
	AddForecastBatch(ctx context.Context, credential string, entries []maintenance.ForecastEntry) (maintenance.BatchOutcome, error)
	AddActual(ctx context.Context, credential string, entry maintenance.ActualEntry) (maintenance.RecordOutcome, error)
	SoftDeleteForecast(ctx context.Context, credential string, index uint64) (outcome.Outcome, error)
	SoftDeleteActual(ctx context.Context, credential string, index uint64) (outcome.Outcome, error)
}

// QueryService defines the enriched read views needed by MCP.
type QueryService interface {
	ListAssets(ctx context.Context) ([]query.AssetView, error)
	GetAsset(ctx context.Context, index uint64) (*query.AssetView, error)
	GetAssetForecasts(ctx context.Context, index uint64) ([]query.ForecastView, error)
	GetAssetActuals(ctx context.Context, index uint64) ([]query.ActualView, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.Entry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Identities  IdentityService
	Assets      AssetService
	Maintenance MaintenanceService
	Query       QueryService
	Activity    ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// DefaultCredential is used when a request carries no credential of its own.
	DefaultCredential string
	TransportMode     string // "stdio" or "http"
	Logger            *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "assetledger",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions:       serverInstructions,
		Logger:             cfg.Logger,
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})

	registerDocResources(server)
	registerActivityResource(server, cfg.Services.Activity)

	server.AddReceivingMiddleware(
		credentialMiddleware(cfg.DefaultCredential),
		trafficLoggingMiddleware(cfg.Logger, "inbound"),
	)
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
