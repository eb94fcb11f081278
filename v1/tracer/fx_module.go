package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/lambdadb/lambdadb-go/v1/logger"
)

// FXModule provides *Tracer and flushes it on shutdown.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    tracer.FXModule,
//	    fx.Provide(func() tracer.Config { return tracer.Config{ServiceName: "search-api"} }),
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClientWithDI,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// TracerParams groups the dependencies of NewClientWithDI.
type TracerParams struct {
	fx.In

	Config Config
	Logger logger.Logger `optional:"true"`
}

// NewClientWithDI builds a Tracer from injected dependencies.
func NewClientWithDI(p TracerParams) (*Tracer, error) {
	return NewClient(p.Config, p.Logger)
}

// RegisterTracerLifecycle shuts the tracer provider down when the app stops,
// flushing pending spans.
func RegisterTracerLifecycle(lc fx.Lifecycle, t *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if t.logger != nil {
				t.logger.Info("shutting down tracer", nil, nil)
			}
			return t.Shutdown(ctx)
		},
	})
}
