package metrics

// DefaultMetricsAddress is used when Config.Address is empty.
const DefaultMetricsAddress = ":9090"

// Config defines how metrics are exposed and collected.
type Config struct {
	// Address is where the /metrics HTTP server listens, e.g. ":9090" or
	// "127.0.0.1:9100".
	//
	// Default: ":9090"
	Address string `yaml:"address" toml:"address" env:"METRICS_ADDRESS"`

	// EnableDefaultCollectors registers the Go runtime, process and build
	// info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" toml:"enable_default_collectors" env:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace prefixes every metric name registered by this package.
	//
	// Example:
	//   Namespace: "search"
	//   → "search_client_operations_total"
	Namespace string `yaml:"namespace" toml:"namespace" env:"METRICS_NAMESPACE"`

	// ServiceName is attached to every series as the constant "service" label.
	ServiceName string `yaml:"service_name" toml:"service_name" env:"METRICS_SERVICE_NAME"`
}
