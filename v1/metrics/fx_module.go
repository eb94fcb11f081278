package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/lambdadb/lambdadb-go/v1/logger"
	"github.com/lambdadb/lambdadb-go/v1/observability"
)

// FXModule provides *Metrics, exposes it as MetricsCollector and
// observability.Observer, and runs the metrics server while the app is up.
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		func(m *Metrics) MetricsCollector { return m },
		func(m *Metrics) observability.Observer { return m },
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// MetricsLifecycleParams groups the dependencies of RegisterMetricsLifecycle.
type MetricsLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    logger.Logger `optional:"true"`
}

// RegisterMetricsLifecycle starts the metrics server on start and shuts it
// down gracefully on stop.
func RegisterMetricsLifecycle(p MetricsLifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if p.Logger != nil {
					p.Logger.Info("Starting Prometheus metrics server", nil, map[string]interface{}{
						"address": p.Metrics.Server.Addr,
					})
				}
				if err := p.Metrics.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					if p.Logger != nil {
						p.Logger.Error("Error starting Prometheus metrics server", err, nil)
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if p.Logger != nil {
				p.Logger.Info("Shutting down Prometheus metrics server", nil, nil)
			}
			return p.Metrics.Server.Shutdown(ctx)
		},
	})
}
