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

	"github.com/aussiebroadwan/credgate/internal/gateway/directory"
	"github.com/aussiebroadwan/credgate/internal/gateway/events"
	httpapi "github.com/aussiebroadwan/credgate/internal/gateway/http"
	"github.com/aussiebroadwan/credgate/internal/gateway/observability"
	"github.com/aussiebroadwan/credgate/internal/gateway/revocation"
	"github.com/aussiebroadwan/credgate/internal/gateway/service"
	"github.com/aussiebroadwan/credgate/pkg/jwtx"
	"github.com/aussiebroadwan/credgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	serviceName = "credgate"
)

// Application encapsulates the gateway with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	directory   *directory.Client
	codec       *jwtx.HS256Codec
	revocations *revocation.MemoryStore
	audit       events.Publisher
	tracing     observability.ShutdownFunc

	// Services
	authService *service.AuthService
	sweeper     *service.RevocationSweeper // nil unless REVOCATION_SWEEP_INTERVAL > 0

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDependencies(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.sweeper != nil {
		app.sweeper.Start()
	}

	app.logger.Info("credgate starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.stopBackground()
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

// Shutdown drains the HTTP server within the grace period, then stops the
// sweeper, flushes audit events and flushes pending spans.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down credgate...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	err := app.stopBackground()

	app.logger.Info("credgate stopped")
	return err
}

func (app *Application) stopBackground() error {
	if app.sweeper != nil {
		app.sweeper.Stop()
	}

	var errs []error
	if err := app.audit.Close(); err != nil {
		app.logger.Error("error closing audit publisher", "error", err)
		errs = append(errs, err)
	}

	// Span export gets its own deadline so a slow collector cannot hang exit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.tracing(ctx); err != nil {
		app.logger.Error("error flushing traces", "error", err)
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// initDependencies builds the directory client, token codec, deny-list,
// audit publisher and tracer.
func (app *Application) initDependencies() error {
	dir, err := directory.New(directory.Config{
		BaseURL:  app.cfg.ClientsServiceURL,
		Timeout:  app.cfg.DirectoryTimeout,
		RetryMax: app.cfg.DirectoryRetryMax,
		Logger:   app.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize directory client: %w", err)
	}
	app.directory = dir

	codec, err := jwtx.NewHS256Codec(app.cfg.JWTSecret, app.cfg.JWTExpiresIn)
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	app.revocations = revocation.NewMemoryStore()

	if len(app.cfg.KafkaBrokers) > 0 {
		app.audit = events.NewKafkaPublisher(app.cfg.KafkaBrokers, app.cfg.KafkaAuditTopic, app.logger)
		app.logger.Info("audit events enabled", "brokers", app.cfg.KafkaBrokers, "topic", app.cfg.KafkaAuditTopic)
	} else {
		app.audit = events.Nop{}
	}

	shutdownTracing, err := observability.SetupTracing(
		context.Background(), app.cfg.OTLPEndpoint, serviceName, BuildVersion)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.tracing = shutdownTracing

	return nil
}

// initServices initializes the session flows and the optional sweeper
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Credentials: &service.CredentialVerifier{Directory: app.directory},
		Codec:       app.codec,
		Revocations: app.revocations,
		Audit:       app.audit,
	}

	if app.cfg.RevocationSweepInterval > 0 {
		app.sweeper = service.NewRevocationSweeper(
			app.revocations,
			app.logger,
			app.cfg.RevocationSweepInterval,
		)
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.authService,
		httpapi.NewMetrics(app.revocations),
		app.logger,
		httpapi.Options{
			AllowedOrigins: app.cfg.CORSAllowedOrigins,
			ExposeDetail:   slogx.IsDevelopment(app.cfg.Env),
			AdminToken:     app.cfg.AdminToken,
		},
	)
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
