package lambdadb

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Client is the LambdaDB API surface. It is implemented by *LambdaDBClient.
type Client interface {
	// Collections returns the project-level collection operations.
	Collections() *Collections

	// Collection returns a handle scoped to one collection.
	Collection(name string) *Collection

	// Close releases idle connections of the default transport.
	Close() error
}

var _ Client = (*LambdaDBClient)(nil)

// Logger is the logging contract used by the client. *logger.LoggerClient
// from this module implements it.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Tracer opens a span per operation and propagates its context to the
// service. *tracer.Tracer from this module implements it.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, trace.Span)
	RecordErrorOnSpan(span trace.Span, err error)
	SetAttributes(span trace.Span, attrs map[string]interface{})
	GetCarrier(ctx context.Context) map[string]string
}
