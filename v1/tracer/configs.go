package tracer

// Config controls the tracer provider.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name" toml:"service_name" env:"TRACER_SERVICE_NAME"`

	// AppEnv is recorded as deployment.environment.
	AppEnv string `yaml:"app_env" toml:"app_env" env:"TRACER_APP_ENV"`

	// EnableExport sends spans to an OTLP/HTTP collector. Without it spans are
	// created and propagated but never exported.
	EnableExport bool `yaml:"enable_export" toml:"enable_export" env:"TRACER_ENABLE_EXPORT"`

	// Endpoint overrides the collector host:port, e.g. "otel-collector:4318".
	Endpoint string `yaml:"endpoint" toml:"endpoint" env:"TRACER_ENDPOINT"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" toml:"insecure" env:"TRACER_INSECURE"`
}
