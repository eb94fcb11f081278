package lambdadb

import (
	"context"

	"go.uber.org/fx"

	"github.com/lambdadb/lambdadb-go/v1/logger"
	"github.com/lambdadb/lambdadb-go/v1/observability"
	"github.com/lambdadb/lambdadb-go/v1/tracer"
)

// FXModule is an fx.Module that provides and configures the LambdaDB client.
//
// The module:
// 1. Provides *LambdaDBClient and exposes it as Client
// 2. Invokes the lifecycle registration to release connections on shutdown
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,  // optional
//	    metrics.FXModule, // optional, provides observability.Observer
//	    tracer.FXModule,  // optional
//	    lambdadb.FXModule,
//	    fx.Provide(lambdadb.NewConfig),
//	)
var FXModule = fx.Module("lambdadb",
	fx.Provide(
		NewClientWithDI,
		func(c *LambdaDBClient) Client { return c },
	),
	fx.Invoke(RegisterLambdaDBLifecycle),
)

// LambdaDBParams groups the dependencies needed to create a LambdaDB client.
type LambdaDBParams struct {
	fx.In

	Config   *Config
	Logger   logger.Logger          `optional:"true"`
	Observer observability.Observer `optional:"true"`
	Tracer   *tracer.Tracer         `optional:"true"`
}

// NewClientWithDI creates a LambdaDB client from injected dependencies and
// attaches the optional logger, observer and tracer.
func NewClientWithDI(params LambdaDBParams) (*LambdaDBClient, error) {
	client, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}

	if params.Logger != nil {
		client.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		client.WithObserver(params.Observer)
	}
	if params.Tracer != nil {
		client.WithTracer(params.Tracer)
	}
	return client, nil
}

// LambdaDBLifecycleParams groups the dependencies needed for lifecycle management.
type LambdaDBLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *LambdaDBClient
	Logger    logger.Logger `optional:"true"`
}

// RegisterLambdaDBLifecycle closes the client when the application stops.
func RegisterLambdaDBLifecycle(params LambdaDBLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if params.Logger != nil {
				params.Logger.Info("Shutting down LambdaDB client", nil, nil)
			}
			return params.Client.Close()
		},
	})
}
