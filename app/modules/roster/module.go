package roster

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/league-score-manager/app/eventbus"
	rosterservice "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/application"
	rosterhandlers "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/infrastructure/handlers"
	rosterdb "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/infrastructure/repositories"
	rosterrouter "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/infrastructure/router"
	rostersubscribers "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/infrastructure/subscribers"
	rostermetrics "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/metrics"
	"github.com/Black-And-White-Club/league-score-manager/app/observability"
	"github.com/Black-And-White-Club/league-score-manager/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

// auditRetention is how many roster events the audit trail keeps in memory.
const auditRetention = 200

// Module represents the roster module.
type Module struct {
	RosterService rosterservice.Service
	Handlers      rosterhandlers.Handlers
	HTTPHandler   http.Handler
	EventRouter   *rosterrouter.EventRouter
	Audit         *rostersubscribers.AuditSubscribers
	observability observability.Observability
	closers       []func() error
}

// NewRosterModule wires the store, service, handlers and routers for the roster.
// router may be nil when no event consumers should run, as in one-shot CLI commands.
func NewRosterModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "roster.NewRosterModule called", slog.String("store", cfg.Store.Driver))

	repo, closeRepo, err := NewRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	metrics, err := rostermetrics.NewPrometheus(obs.Registry)
	if err != nil {
		_ = closeRepo()
		return nil, fmt.Errorf("failed to register roster metrics: %w", err)
	}

	service := rosterservice.NewRosterService(repo, eventBus, logger, metrics, obs.Tracer)
	handlers := rosterhandlers.NewRosterHandlers(service, logger, obs.Tracer, cfg.Export.Filename)
	httpHandler := rosterrouter.NewRouter(handlers, obs.Registry, rosterrouter.Config{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RateLimit:      cfg.HTTP.RateLimit,
		Burst:          cfg.HTTP.RateBurst,
	})

	module := &Module{
		RosterService: service,
		Handlers:      handlers,
		HTTPHandler:   httpHandler,
		observability: obs,
		closers:       []func() error{closeRepo},
	}

	if router != nil {
		module.Audit = rostersubscribers.NewAuditSubscribers(logger, auditRetention)
		module.EventRouter = rosterrouter.NewEventRouter(logger, router, eventBus, obs.Registry)
		module.EventRouter.Configure(module.Audit)
	}

	return module, nil
}

// NewRepository opens the store selected by cfg.Store.Driver. The returned func releases it.
func NewRepository(ctx context.Context, cfg *config.Config) (rosterdb.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.StoreFile, "":
		return rosterdb.NewFileRepository(cfg.Store.Path), noop, nil

	case config.StorePostgres:
		db := rosterdb.OpenPostgres(cfg.Postgres.DSN)
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return rosterdb.NewPostgresRepository(db), db.Close, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return rosterdb.NewRedisRepository(client, cfg.Redis.Key), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Close releases the store connection.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping roster module")

	var firstErr error
	for _, c := range m.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	logger.Info("Roster module stopped")
	return firstErr
}
