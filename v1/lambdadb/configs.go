package lambdadb

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docker/go-units"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Default values for configuration
const (
	DefaultBaseURL     = "https://api.lambdadb.ai"
	DefaultProjectName = "default"

	// DefaultPageSize is the page size used by pagers when none is given.
	DefaultPageSize = 100

	// MaxListPageSize is the largest page the service returns per request.
	MaxListPageSize = 100

	// MaxFetchIDs is the largest number of ids accepted by one fetch request.
	MaxFetchIDs = 100

	// DefaultBulkUploadSizeLimit applies when an upload ticket declares no limit.
	DefaultBulkUploadSizeLimit int64 = 200 * units.MiB

	// MaxUpsertPayloadSize is the largest body accepted by upsert and update.
	MaxUpsertPayloadSize int64 = 6 * units.MiB

	DefaultFetchConcurrency = 4
)

// Environment variables read by NewConfig and LoadConfigFile.
const (
	EnvProjectAPIKey       = "LAMBDADB_PROJECT_API_KEY"
	EnvBaseURL             = "LAMBDADB_BASE_URL"
	EnvProjectName         = "LAMBDADB_PROJECT_NAME"
	EnvServerURL           = "LAMBDADB_SERVER_URL"
	EnvTimeoutMs           = "LAMBDADB_TIMEOUT_MS"
	EnvBulkUploadSizeLimit = "LAMBDADB_BULK_UPLOAD_SIZE_LIMIT"
)

// Retry strategies understood by HTTPTransport.
const (
	RetryStrategyBackoff = "backoff"
	RetryStrategyNone    = "none"
)

// Config defines the configuration of the LambdaDB client.
type Config struct {
	// ProjectAPIKey authenticates every service request (x-api-key header).
	ProjectAPIKey string `yaml:"project_api_key" toml:"project_api_key" validate:"required"`

	// BaseURL is the API host.
	// Default: "https://api.lambdadb.ai"
	BaseURL string `yaml:"base_url" toml:"base_url" validate:"omitempty,url"`

	// ProjectName selects the project; requests go to BaseURL/projects/{ProjectName}.
	// Default: "default"
	ProjectName string `yaml:"project_name" toml:"project_name"`

	// ServerURL replaces BaseURL/projects/{ProjectName} entirely when set.
	ServerURL string `yaml:"server_url" toml:"server_url" validate:"omitempty,url"`

	// TimeoutMs is the default per-request timeout in milliseconds.
	// Zero means no timeout.
	TimeoutMs int `yaml:"timeout_ms" toml:"timeout_ms" validate:"gte=0"`

	// Retries is the default retry policy applied by the transport.
	Retries RetryConfig `yaml:"retries" toml:"retries"`

	// UserAgent is sent with every service request.
	UserAgent string `yaml:"user_agent" toml:"user_agent"`

	// HTTPHeaders are added to every service request.
	HTTPHeaders map[string]string `yaml:"http_headers" toml:"http_headers"`

	// DefaultPageSize is used by ListPages and All when no size is given.
	// Default: 100
	DefaultPageSize int `yaml:"default_page_size" toml:"default_page_size" validate:"gte=0"`

	// BulkUploadSizeLimit is the fallback payload ceiling for bulk upserts,
	// in human readable form ("200MiB"). Ticket limits take precedence.
	BulkUploadSizeLimit string `yaml:"bulk_upload_size_limit" toml:"bulk_upload_size_limit"`
	bulkUploadSizeLimit int64
}

// RetryConfig controls retries of failed requests by the transport.
type RetryConfig struct {
	// Strategy is "backoff" or "none". Empty means "none".
	Strategy string `yaml:"strategy" toml:"strategy" validate:"omitempty,oneof=backoff none"`

	Backoff BackoffConfig `yaml:"backoff" toml:"backoff"`

	// RetryConnectionErrors also retries requests that failed before a
	// response was received.
	RetryConnectionErrors bool `yaml:"retry_connection_errors" toml:"retry_connection_errors"`
}

// BackoffConfig is an exponential backoff schedule in milliseconds.
type BackoffConfig struct {
	InitialIntervalMs int     `yaml:"initial_interval_ms" toml:"initial_interval_ms" validate:"gte=0"`
	MaxIntervalMs     int     `yaml:"max_interval_ms" toml:"max_interval_ms" validate:"gte=0"`
	Exponent          float64 `yaml:"exponent" toml:"exponent" validate:"gte=0"`
	MaxElapsedTimeMs  int     `yaml:"max_elapsed_time_ms" toml:"max_elapsed_time_ms" validate:"gte=0"`
}

// DefaultRetryConfig retries 429 and 5xx responses and connection errors with
// exponential backoff for up to one hour.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Strategy: RetryStrategyBackoff,
		Backoff: BackoffConfig{
			InitialIntervalMs: 500,
			MaxIntervalMs:     60000,
			Exponent:          1.5,
			MaxElapsedTimeMs:  3600000,
		},
		RetryConnectionErrors: true,
	}
}

// DefaultConfig returns a configuration with production defaults and no API key.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:             DefaultBaseURL,
		ProjectName:         DefaultProjectName,
		Retries:             DefaultRetryConfig(),
		UserAgent:           "lambdadb-go/v1",
		DefaultPageSize:     DefaultPageSize,
		BulkUploadSizeLimit: "200MiB",
		bulkUploadSizeLimit: DefaultBulkUploadSizeLimit,
	}
}

// NewConfig returns DefaultConfig with environment overrides applied and
// validated.
//
// Example:
//
//	cfg, err := lambdadb.NewConfig()
//	if err != nil {
//	    return err
//	}
//	client, err := lambdadb.NewClient(cfg)
func NewConfig() (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML (.yaml, .yml) or TOML (.toml) file on top of
// DefaultConfig, then applies environment overrides and validates.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	overlay := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, overlay)
	case ".toml":
		err = toml.Unmarshal(data, overlay)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Merge(overlay)
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge applies values from overlay that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay == nil {
		return
	}
	if overlay.ProjectAPIKey != "" {
		c.ProjectAPIKey = overlay.ProjectAPIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.ProjectName != "" {
		c.ProjectName = overlay.ProjectName
	}
	if overlay.ServerURL != "" {
		c.ServerURL = overlay.ServerURL
	}
	if overlay.TimeoutMs != 0 {
		c.TimeoutMs = overlay.TimeoutMs
	}
	if overlay.Retries.Strategy != "" {
		c.Retries = overlay.Retries
	}
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
	if len(overlay.HTTPHeaders) > 0 {
		c.HTTPHeaders = overlay.HTTPHeaders
	}
	if overlay.DefaultPageSize != 0 {
		c.DefaultPageSize = overlay.DefaultPageSize
	}
	if overlay.BulkUploadSizeLimit != "" {
		c.BulkUploadSizeLimit = overlay.BulkUploadSizeLimit
	}
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.Validate()
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.ProjectName == "" {
		c.ProjectName = DefaultProjectName
	}
	if c.DefaultPageSize == 0 {
		c.DefaultPageSize = DefaultPageSize
	}
	if c.BulkUploadSizeLimit == "" {
		c.BulkUploadSizeLimit = "200MiB"
	}
}

func (c *Config) loadEnv() error {
	if v := os.Getenv(EnvProjectAPIKey); v != "" {
		c.ProjectAPIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvProjectName); v != "" {
		c.ProjectName = v
	}
	if v := os.Getenv(EnvServerURL); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv(EnvTimeoutMs); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeoutMs, err)
		}
		c.TimeoutMs = ms
	}
	if v := os.Getenv(EnvBulkUploadSizeLimit); v != "" {
		c.BulkUploadSizeLimit = v
	}
	return nil
}

// Validate checks the configuration and resolves BulkUploadSizeLimit.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid lambdadb config: %w", err)
	}

	if c.BulkUploadSizeLimit == "" {
		c.bulkUploadSizeLimit = DefaultBulkUploadSizeLimit
		return nil
	}
	size, err := units.RAMInBytes(c.BulkUploadSizeLimit)
	if err != nil {
		return fmt.Errorf("invalid bulk_upload_size_limit: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("bulk_upload_size_limit must be positive")
	}
	c.bulkUploadSizeLimit = size
	return nil
}

// ServerURLFor returns ServerURL when set, otherwise BaseURL/projects/{ProjectName}.
func (c *Config) ServerURLFor() (string, error) {
	if c.ServerURL != "" {
		return strings.TrimRight(c.ServerURL, "/"), nil
	}
	project, err := pathParam("projectName", c.ProjectName)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(c.BaseURL, "/") + "/projects/" + project, nil
}

// BulkUploadSizeLimitBytes returns the resolved fallback upload ceiling.
func (c *Config) BulkUploadSizeLimitBytes() int64 {
	if c.bulkUploadSizeLimit <= 0 {
		return DefaultBulkUploadSizeLimit
	}
	return c.bulkUploadSizeLimit
}

// WithProjectAPIKey sets the API key.
func (c *Config) WithProjectAPIKey(key string) *Config {
	c.ProjectAPIKey = key
	return c
}

// WithBaseURL sets the API host.
func (c *Config) WithBaseURL(baseURL string) *Config {
	c.BaseURL = baseURL
	return c
}

// WithProjectName sets the project.
func (c *Config) WithProjectName(name string) *Config {
	c.ProjectName = name
	return c
}

// WithServerURL overrides the full server URL.
func (c *Config) WithServerURL(serverURL string) *Config {
	c.ServerURL = serverURL
	return c
}

// WithTimeoutMs sets the default request timeout in milliseconds.
func (c *Config) WithTimeoutMs(ms int) *Config {
	c.TimeoutMs = ms
	return c
}

// WithRetries sets the default retry policy.
func (c *Config) WithRetries(r RetryConfig) *Config {
	c.Retries = r
	return c
}

// WithHTTPHeaders sets headers added to every service request.
func (c *Config) WithHTTPHeaders(h map[string]string) *Config {
	c.HTTPHeaders = h
	return c
}
