package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus registry, the client operation series and the
// HTTP server that exposes them.
type Metrics struct {
	// Server serves the registry on /metrics. It is not started by NewMetrics.
	Server *http.Server

	// Registry is the underlying registry, useful for gathering in tests.
	Registry *prometheus.Registry

	registerer prometheus.Registerer
	namespace  string

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationBytes    *prometheus.HistogramVec
}

// NewMetrics creates a registry wrapped with the service label, registers the
// client operation series and prepares (but does not start) the HTTP server.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "search-api"})
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	if cfg.Address == "" {
		cfg.Address = DefaultMetricsAddress
	}

	registry := prometheus.NewRegistry()

	var registerer prometheus.Registerer = registry
	if cfg.ServiceName != "" {
		registerer = prometheus.WrapRegistererWith(
			prometheus.Labels{"service": cfg.ServiceName},
			registry,
		)
	}

	m := &Metrics{
		Registry:   registry,
		registerer: registerer,
		namespace:  cfg.Namespace,
	}

	m.operationsTotal = createCounterVec(cfg.Namespace, "client_operations_total",
		"Total number of client operations by outcome",
		[]string{"component", "operation", "status"})
	m.operationDuration = createHistogramVec(cfg.Namespace, "client_operation_duration_seconds",
		"Duration of client operations in seconds",
		[]string{"component", "operation"}, prometheus.DefBuckets)
	m.operationBytes = createHistogramVec(cfg.Namespace, "client_operation_bytes",
		"Payload size of client operations in bytes",
		[]string{"component", "operation"}, prometheus.ExponentialBuckets(256, 4, 12))

	registerer.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.operationBytes,
	)

	if cfg.EnableDefaultCollectors {
		registerer.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: mux,
	}
	return m
}
