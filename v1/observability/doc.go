// Package observability defines the hook that client packages use to report
// the operations they perform.
//
// A client such as lambdadb calls ObserveOperation once per completed
// operation (successful or not). Implementations turn those notifications into
// metrics, traces or audit logs; the metrics package ships a Prometheus
// implementation.
//
// Example:
//
//	type printObserver struct{}
//
//	func (printObserver) ObserveOperation(op observability.OperationContext) {
//	    fmt.Printf("%s.%s took %s (err=%v)\n", op.Component, op.Operation, op.Duration, op.Error)
//	}
//
//	client = client.WithObserver(printObserver{})
package observability
