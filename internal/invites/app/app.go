package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/http"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/service"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store/drivers/sqlite"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/jwtx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/otelx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application encapsulates the invites service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db            store.Store
	keys          *jwtx.KeySet
	verifier      jwtx.Verifier
	httpClient    *http.Client
	otelShutdown  func(context.Context) error
	stopKeyReload context.CancelFunc

	// Services
	inviteService       *service.InviteService
	identityService     *service.IdentityService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "invites-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	shutdown, err := otelx.Setup(ctx, otelx.Config{
		Endpoint:       cfg.OTelEndpoint,
		Disabled:       cfg.OTelDisabled,
		ServiceName:    "invites-service",
		ServiceVersion: BuildVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.otelShutdown = shutdown

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, verifier, err := InitAuthKeys(ctx, cfg, app.httpClient, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize auth keys: %w", err)
	}
	app.keys = keys
	app.verifier = verifier

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	reloadCtx, cancel := context.WithCancel(context.Background())
	app.stopKeyReload = cancel
	go RefreshKeys(reloadCtx, app.cfg, app.httpClient, app.keys, app.logger)

	app.logger.Info("invites service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down invites service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.stopKeyReload != nil {
		app.stopKeyReload()
	}
	app.housekeepingService.Stop()

	if err := app.otelShutdown(ctx); err != nil {
		app.logger.Error("error flushing traces", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("invites service stopped")
	return nil
}

// initDatabase opens the store and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.inviteService = &service.InviteService{
		Store: app.db,
		Retry: service.RetryPolicy{
			MaxRetries:      app.cfg.RedeemRetries,
			InitialInterval: app.cfg.RedeemRetryInterval,
		},
	}
	app.identityService = &service.IdentityService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.InviteRetention,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.InviteService = app.inviteService
	router.IdentityService = app.identityService
	router.Limits = app.cfg.RateLimits()
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
