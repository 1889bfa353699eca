package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ServiceName identifies this process in traces and logs.
const ServiceName = "league-score-manager"

// Config holds the settings the observability stack is built from.
type Config struct {
	LogLevel    string
	LogFormat   string // text|json
	Environment string

	// OTLPEndpoint is the host:port of an OTLP gRPC collector. Empty disables tracing.
	OTLPEndpoint    string
	OTLPInsecure    bool
	TraceSampleRate float64
}

// Observability bundles the logger, metrics registry and tracer handed to every module.
type Observability struct {
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Tracer   trace.Tracer

	shutdown func(context.Context) error
}

// New builds the observability stack. Logs go to w, or stderr when w is nil. Tracing is
// exported over OTLP when cfg.OTLPEndpoint is set and is a noop otherwise.
func New(ctx context.Context, cfg Config, w io.Writer) (Observability, error) {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}
	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler).With(
		slog.String("service", ServiceName),
	)
	if cfg.Environment != "" {
		logger = logger.With(slog.String("environment", cfg.Environment))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	obs := Observability{
		Logger:   logger,
		Registry: registry,
		Tracer:   noop.NewTracerProvider().Tracer(ServiceName),
		shutdown: func(context.Context) error { return nil },
	}

	if cfg.OTLPEndpoint != "" {
		exporter, err := newOTLPExporter(ctx, cfg)
		if err != nil {
			return Observability{}, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		tp := newTracerProvider(cfg, exporter)
		obs.Tracer = tp.Tracer(ServiceName)
		obs.shutdown = tp.Shutdown
		logger.InfoContext(ctx, "OTLP tracing enabled",
			slog.String("endpoint", cfg.OTLPEndpoint),
			slog.Float64("sample_rate", cfg.TraceSampleRate),
		)
	}

	return obs, nil
}

// NewNoop returns a stack that discards logs and traces. Used by tests and one-shot CLI runs.
func NewNoop() Observability {
	return Observability{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
		Tracer:   noop.NewTracerProvider().Tracer("test"),
		shutdown: func(context.Context) error { return nil },
	}
}

// Shutdown flushes pending spans and stops the tracer provider.
func (o Observability) Shutdown(ctx context.Context) error {
	if o.shutdown == nil {
		return nil
	}
	return o.shutdown(ctx)
}

// ParseLevel maps a config string to a slog level. Unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
