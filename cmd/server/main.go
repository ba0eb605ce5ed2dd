package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prxgr4mmer/phone-market-analyst/internal/adapters/catalog"
	httpAdapter "github.com/prxgr4mmer/phone-market-analyst/internal/adapters/http"
	"github.com/prxgr4mmer/phone-market-analyst/internal/adapters/postgres"
	"github.com/prxgr4mmer/phone-market-analyst/internal/adapters/telegram"
	"github.com/prxgr4mmer/phone-market-analyst/internal/config"
	"github.com/prxgr4mmer/phone-market-analyst/internal/logging"
	"github.com/prxgr4mmer/phone-market-analyst/internal/metrics"
	"github.com/prxgr4mmer/phone-market-analyst/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, logCloser := logging.New(cfg.Logging)
	slog.SetDefault(logger)
	defer logCloser.Close()

	logger.Info("starting phone market analyst", "catalog_source", cfg.Catalog.Source)

	// Create root context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build and start application
	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		logCloser.Close()
		os.Exit(1)
	}

	// Start application components
	app.Start()

	// Wait for shutdown signal
	waitForShutdown(ctx, cancel, app, logger)
}

// Application holds all components
type Application struct {
	catalog    *catalog.Memory
	httpServer *httpAdapter.Server
	errCh      chan error
	logger     *slog.Logger
}

// loadCatalog reads the catalog from the configured source. A database
// is only opened for the postgres source and is closed once loaded.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalog.Memory, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceFile:
		return catalog.Load(ctx, catalog.NewFileLoader(cfg.Catalog.Path))

	case config.CatalogSourcePostgres:
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			return nil, err
		}
		return catalog.Load(ctx, postgres.NewCatalogLoader(db))

	case config.CatalogSourceEmbedded:
		return catalog.Load(ctx, catalog.NewEmbeddedLoader())

	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

func buildApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("building application")

	// 1. Infrastructure Layer - Catalog
	mem, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog ready", "devices", mem.Len())

	// 2. Infrastructure Layer - Messenger
	messenger := telegram.NewClient(
		cfg.Telegram.BotToken,
		telegram.WithBaseURL(cfg.Telegram.BaseURL),
		telegram.WithTimeout(cfg.Telegram.Timeout),
		telegram.WithLogger(logger),
	)
	if !messenger.Enabled() {
		logger.Warn("telegram bot token not set, replies will not be sent")
	}

	m := metrics.New()

	// 3. Service Layer
	analysisService := services.NewAnalysisService(mem, logger)
	trendService := services.NewTrendService(analysisService, logger)
	dispatcherService := services.NewDispatcherService(
		services.DispatcherConfig{WebhookSecret: cfg.Telegram.WebhookSecret},
		analysisService,
		messenger,
		m,
		logger,
	)

	// 4. Transport Layer - HTTP Server
	handler := httpAdapter.NewHandler(
		analysisService,
		trendService,
		dispatcherService,
		messenger,
		m,
		logger,
	)
	httpServer := httpAdapter.NewServer(cfg.Server, handler, logger)

	logger.Info("application built successfully")

	return &Application{
		catalog:    mem,
		httpServer: httpServer,
		errCh:      make(chan error, 1),
		logger:     logger,
	}, nil
}

func (a *Application) Start() {
	a.logger.Info("starting application components")

	go func() {
		a.errCh <- a.httpServer.Start()
	}()

	a.logger.Info("application started",
		"http_addr", a.httpServer.Addr(),
		"devices", a.catalog.Len(),
	)
}

func (a *Application) Shutdown() {
	a.logger.Info("shutting down application")

	if err := a.httpServer.Shutdown(context.Background()); err != nil {
		a.logger.Error("failed to shutdown http server", "error", err)
	}

	a.logger.Info("application shutdown complete")
}

func waitForShutdown(ctx context.Context, cancel context.CancelFunc, app *Application, logger *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
		app.Shutdown()
	case err := <-app.errCh:
		if err != nil {
			logger.Error("http server error", "error", err)
		}
		cancel()
		app.Shutdown()
	case <-ctx.Done():
		app.Shutdown()
	}
}
