package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/assetledger/internal/app"
	"github.com/rpggio/assetledger/internal/config"
	"github.com/rpggio/assetledger/internal/mcp"
	"github.com/rpggio/assetledger/internal/sqlite"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "assetledger: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("preparing database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return err
	}

	registry := app.New(db, app.Options{
		NameCacheTTL: cfg.Identity.NameCacheTTL,
		Logger:       logger,
	})
	defer registry.Close()

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Identities:  registry.Identities,
			Assets:      registry.Assets,
			Maintenance: registry.Maintenance,
			Query:       registry.Query,
			Activity:    registry.Activity,
		},
		DefaultCredential: cfg.DefaultCredential(),
		TransportMode:     cfg.Transport.Mode,
		Logger:            logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	mcp.ForwardActivity(ctx, server, registry.Activity, logger)

	if cfg.Transport.Mode == config.TransportStdio {
		logger.Info("starting stdio transport", "db", cfg.DB.Path, "default_credential", cfg.DefaultCredential() != "")
		return serveStdio(ctx, server)
	}
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting http transport", "addr", addr, "db", cfg.DB.Path)
	return serveHTTP(ctx, logger, server, addr)
}

// newLogger writes to stderr in stdio mode so stdout carries only JSON-RPC.
// A configured log path takes precedence over both streams.
func newLogger(cfg config.Config) (*slog.Logger, func()) {
	var w io.Writer = os.Stdout
	if cfg.Transport.Mode == config.TransportStdio {
		w = os.Stderr
	}
	closeFn := func() {}
	if cfg.Log.Path != "" {
		file, err := openBoundedLog(cfg.Log.Path, maxLogSizeBytes, keepLogSizeBytes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			w = file
			closeFn = func() { _ = file.Close() }
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(cfg.Log.Level)})), closeFn
}

func serveStdio(ctx context.Context, server *sdkmcp.Server) error {
	// Run returns when stdin closes or ctx is cancelled.
	err := server.Run(ctx, &sdkmcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func serveHTTP(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server, addr string) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)

	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpHandler)
	mux.Handle("/mcp/", mcpHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
