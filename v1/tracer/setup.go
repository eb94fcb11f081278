package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/lambdadb/lambdadb-go/v1/logger"
)

// Tracer provides a simplified API for distributed tracing with OpenTelemetry.
// It is safe for concurrent use.
type Tracer struct {
	provider   *sdktrace.TracerProvider
	propagator propagation.TextMapPropagator
	logger     logger.Logger
}

// NewClient creates the tracer provider, installs it as the global provider
// and configures W3C trace context plus baggage propagation.
//
// Parameters:
//   - cfg: service identity and export settings
//   - log: optional logger for lifecycle events, may be nil
//
// Returns an error when the OTLP exporter cannot be created.
func NewClient(cfg Config, log logger.Logger) (*Tracer, error) {
	var options []sdktrace.TracerProviderOption

	if cfg.EnableExport {
		var clientOpts []otlptracehttp.Option
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, otlptracehttp.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(clientOpts...))
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
	}

	options = append(options, sdktrace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	t := NewClientWithProvider(sdktrace.NewTracerProvider(options...), log)

	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(t.propagator)

	if log != nil {
		log.Info("tracer initialized", nil, map[string]interface{}{
			"service": cfg.ServiceName,
			"export":  cfg.EnableExport,
		})
	}
	return t, nil
}

// NewClientWithProvider wraps an existing provider without touching the
// global OpenTelemetry state. Tests use it with an in-memory span recorder.
func NewClientWithProvider(tp *sdktrace.TracerProvider, log logger.Logger) *Tracer {
	return &Tracer{
		provider:   tp,
		propagator: propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
		logger:     log,
	}
}

// Shutdown flushes pending spans and releases exporter resources.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
