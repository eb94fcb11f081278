package metrics

import (
	"github.com/lambdadb/lambdadb-go/v1/observability"
)

// ObserveOperation records one completed client operation.
// The payload size is only recorded when it is known (Size > 0).
func (m *Metrics) ObserveOperation(op observability.OperationContext) {
	if m == nil {
		return
	}

	m.operationsTotal.WithLabelValues(op.Component, op.Operation, op.Status()).Inc()
	m.operationDuration.WithLabelValues(op.Component, op.Operation).Observe(op.Duration.Seconds())
	if op.Size > 0 {
		m.operationBytes.WithLabelValues(op.Component, op.Operation).Observe(float64(op.Size))
	}
}
