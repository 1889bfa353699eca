package rosterrouter

import (
	"log/slog"

	rostersubscribers "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/infrastructure/subscribers"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// EventRouter configures the watermill router that consumes roster events.
type EventRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewEventRouter wraps router. A nil registry disables router metrics.
func NewEventRouter(logger *slog.Logger, router *message.Router, subscriber message.Subscriber, registry *prometheus.Registry) *EventRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(registry, "", "")
		metricsBuilder = &builder
	}
	return &EventRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		metricsBuilder: metricsBuilder,
	}
}

// Configure installs middleware and registers the audit handlers.
func (r *EventRouter) Configure(audit *rostersubscribers.AuditSubscribers) {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware for roster events")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	audit.Register(r.Router, r.subscriber)
}
