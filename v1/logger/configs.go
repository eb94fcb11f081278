package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls the level, identity and trace correlation of the logger.
type Config struct {
	// Level is one of Debug, Info, Warning or Error.
	// Unknown values fall back to Info.
	Level string `yaml:"level" toml:"level" env:"LOGGER_LEVEL"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" toml:"service_name" env:"LOGGER_SERVICE_NAME"`

	// EnableTracing adds trace_id and span_id to entries written through the
	// *WithContext methods when the context carries a valid span.
	EnableTracing bool `yaml:"enable_tracing" toml:"enable_tracing" env:"LOGGER_ENABLE_TRACING"`
}
