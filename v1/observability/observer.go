package observability

import "time"

// Observer receives a notification for every operation a client performs.
// Implementations must be safe for concurrent use and should return quickly,
// since they are called on the caller's goroutine.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component is the client package that performed the operation (e.g. "lambdadb").
	Component string

	// Operation is the logical operation name (e.g. "query", "bulk_upsert").
	Operation string

	// Resource is the primary target of the operation, such as a collection name.
	Resource string

	// SubResource narrows the target, such as a document id or an object key.
	SubResource string

	// Duration is the wall time spent on the operation.
	Duration time.Duration

	// Error is the error returned to the caller, nil on success.
	Error error

	// Size is the payload size in bytes, when known.
	Size int64

	// Metadata carries operation specific details.
	Metadata map[string]interface{}
}

// Status returns "success" or "error" depending on Error.
func (o OperationContext) Status() string {
	if o.Error != nil {
		return "error"
	}
	return "success"
}

// ObserverFunc adapts an ordinary function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}
