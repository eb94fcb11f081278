// Package metrics exposes Prometheus metrics for services built on the
// LambdaDB Go client.
//
// Besides the usual counter, histogram and gauge factories, *Metrics
// implements observability.Observer, so it can be attached directly to a
// lambdadb client to record every API call, out-of-band fetch and bulk upload:
//
//	m := metrics.NewMetrics(metrics.Config{
//		Address:     ":9090",
//		ServiceName: "search-api",
//	})
//	go m.Server.ListenAndServe()
//
//	client = client.WithObserver(m)
//
// Recorded series (all carry a constant "service" label):
//
//	client_operations_total{component, operation, status}
//	client_operation_duration_seconds{component, operation}
//	client_operation_bytes{component, operation}
//
// # Architecture
//
//   - MetricsCollector interface: the contract consumed by callers
//   - Metrics struct: Prometheus registry plus the /metrics HTTP server
//   - FXModule: provides *Metrics, MetricsCollector and observability.Observer
//     and runs the server for the application lifetime
//
// # Configuration
//
//	METRICS_ADDRESS=:9090
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true
//	METRICS_NAMESPACE=search
//	METRICS_SERVICE_NAME=search-api
package metrics
