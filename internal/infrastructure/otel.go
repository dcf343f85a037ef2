package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/vivekJax/JABS-Window-Analysis/internal/config"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts"
)

const (
	// ServiceName identifies the toolkit in exported spans.
	ServiceName = "jabs-window-scan"

	// TracerName is the instrumentation scope for pipeline spans.
	TracerName = "windowscan"
)

// TracingProviders holds the tracer provider and the tracer used for
// pipeline spans. A nil Tracer means tracing is disabled and callers fall
// back to the global no-op tracer.
type TracingProviders struct {
	TracerProvider *sdktrace.TracerProvider
	Tracer         trace.Tracer
	logger         *slog.Logger
}

// InitializeTracing sets up OpenTelemetry tracing for a batch run. The
// "stdout" exporter pretty-prints finished spans to stdout, which is the
// only exporter a one-shot CLI needs; "none" disables tracing entirely.
func InitializeTracing(cfg config.TracingConfig, logger *slog.Logger) (*TracingProviders, error) {
	providers := &TracingProviders{logger: logger}

	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.Exporter {
	case "stdout":
		exporter, err = stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
		)
	case "", "none":
		providers.Tracer = otel.Tracer(TracerName)
		return providers, nil
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(contracts.Version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(TracerName, trace.WithInstrumentationVersion(contracts.Version))

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("tracing initialized", slog.String("exporter", cfg.Exporter))
	return providers, nil
}

// Shutdown flushes and stops the tracer provider. Safe to call when tracing
// was never enabled.
func (p *TracingProviders) Shutdown(ctx context.Context) error {
	if p == nil || p.TracerProvider == nil {
		return nil
	}
	if err := p.TracerProvider.Shutdown(ctx); err != nil {
		if p.logger != nil {
			p.logger.Error("tracer provider shutdown failed", slog.String("error", err.Error()))
		}
		return err
	}
	return nil
}
