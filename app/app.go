package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Black-And-White-Club/league-score-manager/app/eventbus"
	"github.com/Black-And-White-Club/league-score-manager/app/modules/roster"
	"github.com/Black-And-White-Club/league-score-manager/app/observability"
	"github.com/Black-And-White-Club/league-score-manager/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// App owns the process-wide resources and the roster module.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	EventBus      eventbus.EventBus
	Router        *message.Router
	RosterModule  *roster.Module
}

// NewApp builds the observability stack, event bus, watermill router and roster module.
// withConsumers controls whether event consumers are registered on the router.
func NewApp(ctx context.Context, cfg *config.Config, logOutput io.Writer, withConsumers bool) (*App, error) {
	obs, err := observability.New(ctx, observability.Config{
		LogLevel:        cfg.Observability.LogLevel,
		LogFormat:       cfg.Observability.LogFormat,
		Environment:     cfg.Observability.Environment,
		OTLPEndpoint:    cfg.Observability.OTLPEndpoint,
		OTLPInsecure:    cfg.Observability.OTLPInsecure,
		TraceSampleRate: cfg.Observability.TraceSampleRate,
	}, logOutput)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := obs.Logger

	bus, err := eventbus.NewEventBus(ctx, eventbus.Config{
		Driver:  cfg.EventBus.Driver,
		NATSURL: cfg.EventBus.NATSURL,
	}, logger)
	if err != nil {
		_ = obs.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	var router *message.Router
	if withConsumers {
		router, err = message.NewRouter(message.RouterConfig{CloseTimeout: 5 * time.Second}, watermill.NewSlogLogger(logger))
		if err != nil {
			_ = bus.Close()
			_ = obs.Shutdown(context.Background())
			return nil, fmt.Errorf("failed to create watermill router: %w", err)
		}
	}

	rosterModule, err := roster.NewRosterModule(ctx, cfg, obs, bus, router)
	if err != nil {
		_ = bus.Close()
		_ = obs.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize roster module: %w", err)
	}

	return &App{
		Config:        cfg,
		Observability: obs,
		EventBus:      bus,
		Router:        router,
		RosterModule:  rosterModule,
	}, nil
}

// Run serves the HTTP API and the event router until ctx is done or SIGINT/SIGTERM arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := app.Observability.Logger
	httpCfg := app.Config.HTTP

	srv := &http.Server{
		Addr:              httpCfg.Address,
		Handler:           app.RosterModule.HTTPHandler,
		ReadTimeout:       httpCfg.ReadTimeout,
		ReadHeaderTimeout: httpCfg.ReadTimeout,
		WriteTimeout:      httpCfg.WriteTimeout,
	}

	errCh := make(chan error, 2)
	if app.Router != nil {
		go func() {
			if err := app.Router.Run(ctx); err != nil {
				errCh <- fmt.Errorf("watermill router stopped: %w", err)
			}
		}()
	}
	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", slog.String("address", httpCfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server stopped: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		logger.Error("Server failed", observability.Error(runErr))
	}

	shutdownTimeout := httpCfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", observability.Error(err))
	}

	return runErr
}

// tracerShutdownTimeout bounds the final span flush on Close.
const tracerShutdownTimeout = 5 * time.Second

// Close stops the router, the event bus, the roster module and the tracer provider, in that order.
func (app *App) Close() error {
	var errs []error
	if app.Router != nil {
		if err := app.Router.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close router: %w", err))
		}
	}
	if err := app.EventBus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close event bus: %w", err))
	}
	if err := app.RosterModule.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close roster module: %w", err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
	defer cancel()
	if err := app.Observability.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down tracer provider: %w", err))
	}
	app.Observability.Logger.Info("Application shut down")
	return errors.Join(errs...)
}
