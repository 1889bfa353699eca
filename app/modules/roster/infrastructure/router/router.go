package rosterrouter

import (
	"net/http"

	rosterhandlers "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Config holds the HTTP surface settings.
type Config struct {
	AllowedOrigins []string
	// RateLimit is requests per second per client IP; zero disables limiting.
	RateLimit float64
	Burst     int
}

// NewRouter mounts the roster API, health check and metrics endpoint on a chi router.
func NewRouter(handlers rosterhandlers.Handlers, registry *prometheus.Registry, cfg Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(rosterhandlers.RequestIDMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(rosterhandlers.CORSMiddleware(cfg.AllowedOrigins))
		if cfg.RateLimit > 0 {
			burst := cfg.Burst
			if burst <= 0 {
				burst = 1
			}
			limiter := rosterhandlers.NewIPRateLimiter(rate.Limit(cfg.RateLimit), burst)
			r.Use(rosterhandlers.RateLimitMiddleware(limiter))
		}

		r.Get("/penalties", handlers.HandlePenalties)

		r.Route("/players", func(r chi.Router) {
			r.Get("/", handlers.HandleListPlayers)
			r.Post("/", handlers.HandleAddPlayer)
			r.Get("/{name}", handlers.HandleGetPlayer)
			r.Patch("/{name}", handlers.HandleUpdatePlayer)
		})

		r.Route("/scores", func(r chi.Router) {
			r.Post("/compute", handlers.HandleComputeScores)
			r.Post("/awards", handlers.HandleApplyAwards)
			r.Get("/breakdown", handlers.HandleBreakdown)
		})

		r.Get("/export.xlsx", handlers.HandleExport)
		r.Get("/chart.png", handlers.HandleChart)
	})

	return r
}
