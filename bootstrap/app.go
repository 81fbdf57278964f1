package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/authkit/auth"
	"github.com/kbukum/authkit/auth/oidc"
	"github.com/kbukum/authkit/config"
	"github.com/kbukum/authkit/logger"
	"github.com/kbukum/authkit/observability"
	"github.com/kbukum/authkit/server"
	"github.com/kbukum/authkit/util"
	"github.com/kbukum/authkit/version"
)

// Hook is a lifecycle callback that runs during startup or shutdown.
type Hook func(ctx context.Context) error

// App is a fully wired authkit service.
type App struct {
	Settings *config.Settings
	Logger   *logger.Logger
	Server   *server.Server
	Registry *auth.Registry

	tracerProvider  *sdktrace.TracerProvider
	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook
}

// NewApp builds an App from validated settings. It initializes the
// global logger, registers the OIDC strategy against the configured
// providers, and prepares the HTTP server with the auth and health
// routes. Tracing is left off until EnableTracing is called.
func NewApp(settings *config.Settings, opts ...Option) (*App, error) {
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation: %w", err)
	}

	o := resolveOptions(opts)

	log := o.logger
	if log == nil {
		logger.Init(settings.Logging)
		log = logger.GetGlobalLogger()
	}

	store := settings.ConfigStore()
	verifier := o.verifier
	if verifier == nil {
		if o.keyfunc == nil {
			return nil, fmt.Errorf("a token verifier is required: use WithVerifier or WithKeyfunc")
		}
		kv, err := oidc.NewKeyfuncVerifier(o.keyfunc)
		if err != nil {
			return nil, fmt.Errorf("building token verifier: %w", err)
		}
		verifier = kv
	}
	client := oidc.NewHTTPClient(store, verifier, nil)

	registry := auth.NewRegistry()
	registry.Register(oidc.New(store, client))

	checkers := make([]observability.HealthChecker, 0, len(settings.Providers))
	for name, p := range settings.Providers {
		if p.Issuer != "" {
			checkers = append(checkers, oidc.NewDiscoveryHealth(client, name))
		}
	}

	srv := server.New(settings.Server, log)
	srv.ApplyMiddleware()
	srv.RegisterHealthRoute(settings.Name, version.Short(), checkers...)
	server.NewAuthHandler(registry, log).RegisterRoutes(srv.GinEngine())

	for name, p := range settings.Providers {
		log.Info("Provider configured", map[string]interface{}{
			logger.FieldProvider: name,
			"issuer":             p.Issuer,
			"client_id":          util.MaskSecret(p.ClientID, 6),
		})
	}

	app := &App{
		Settings:        settings,
		Logger:          log,
		Server:          srv,
		Registry:        registry,
		gracefulTimeout: 15 * time.Second,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	return app, nil
}

// OnStart registers hooks that run after the server is listening.
func (a *App) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnStop registers hooks that run during graceful shutdown before the
// server stops.
func (a *App) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// EnableTracing installs an OTLP tracer provider for the service. The
// provider is shut down as part of Run's graceful shutdown.
func (a *App) EnableTracing(ctx context.Context, cfg observability.TracerConfig) error {
	tp, err := observability.InitTracer(ctx, cfg)
	if err != nil {
		return err
	}
	a.tracerProvider = tp
	return nil
}

// Run starts the server, blocks until SIGINT/SIGTERM or context
// cancellation, and then shuts everything down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Server.Start(ctx); err != nil {
		return err
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return err
	}

	a.Logger.Info("Application ready", logger.Fields(
		"service", a.Settings.Name,
		"version", version.Short(),
		"addr", a.Server.Addr(),
	))

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	<-signalCtx.Done()

	return a.Shutdown(context.Background())
}

// Shutdown runs the stop hooks, stops the server, and flushes tracing.
func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.gracefulTimeout)
	defer cancel()

	if err := runHooks(shutdownCtx, a.onStop); err != nil {
		a.Logger.Error("Stop hook failed", logger.ErrorFields("shutdown", err))
	}
	err := a.Server.Stop(shutdownCtx)
	if a.tracerProvider != nil {
		if terr := a.tracerProvider.Shutdown(shutdownCtx); terr != nil && err == nil {
			err = terr
		}
	}
	return err
}

// runHooks executes hooks sequentially, returning the first error.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
