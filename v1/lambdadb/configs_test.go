package lambdadb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/go-units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvProjectAPIKey, EnvBaseURL, EnvProjectName, EnvServerURL, EnvTimeoutMs, EnvBulkUploadSizeLimit} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultProjectName, cfg.ProjectName)
	assert.Equal(t, DefaultPageSize, cfg.DefaultPageSize)
	assert.Equal(t, RetryStrategyBackoff, cfg.Retries.Strategy)
	assert.Equal(t, DefaultBulkUploadSizeLimit, cfg.BulkUploadSizeLimitBytes())
}

func TestConfig_FinalizeRequiresAPIKey(t *testing.T) {
	clearEnv(t)

	err := DefaultConfig().Finalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ProjectAPIKey")
}

func TestConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvProjectAPIKey, "env-key")
	t.Setenv(EnvProjectName, "staging")
	t.Setenv(EnvTimeoutMs, "2500")
	t.Setenv(EnvBulkUploadSizeLimit, "10MiB")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.ProjectAPIKey)
	assert.Equal(t, "staging", cfg.ProjectName)
	assert.Equal(t, 2500, cfg.TimeoutMs)
	assert.Equal(t, int64(10*units.MiB), cfg.BulkUploadSizeLimitBytes())
}

func TestConfig_InvalidEnvTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvProjectAPIKey, "k")
	t.Setenv(EnvTimeoutMs, "soon")

	_, err := NewConfig()
	assert.ErrorContains(t, err, EnvTimeoutMs)
}

func TestConfig_Validation(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad base url", func(c *Config) { c.BaseURL = "not a url" }},
		{"bad server url", func(c *Config) { c.ServerURL = "::" }},
		{"negative timeout", func(c *Config) { c.TimeoutMs = -1 }},
		{"unknown retry strategy", func(c *Config) { c.Retries.Strategy = "forever" }},
		{"bad size limit", func(c *Config) { c.BulkUploadSizeLimit = "lots" }},
		{"zero size limit", func(c *Config) { c.BulkUploadSizeLimit = "0B" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig().WithProjectAPIKey("k")
			tt.mutate(cfg)
			assert.Error(t, cfg.Finalize())
		})
	}
}

func TestLoadConfigFile_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "lambdadb.yaml", `
project_api_key: yaml-key
project_name: analytics
timeout_ms: 3000
http_headers:
  X-Team: search
retries:
  strategy: none
bulk_upload_size_limit: 50MiB
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "yaml-key", cfg.ProjectAPIKey)
	assert.Equal(t, "analytics", cfg.ProjectName)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 3000, cfg.TimeoutMs)
	assert.Equal(t, "search", cfg.HTTPHeaders["X-Team"])
	assert.Equal(t, RetryStrategyNone, cfg.Retries.Strategy)
	assert.Equal(t, int64(50*units.MiB), cfg.BulkUploadSizeLimitBytes())
}

func TestLoadConfigFile_TOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "lambdadb.toml", `
project_api_key = "toml-key"
server_url = "http://localhost:4566/projects/dev"

[retries]
strategy = "backoff"
retry_connection_errors = false

[retries.backoff]
initial_interval_ms = 10
max_interval_ms = 100
exponent = 2.0
max_elapsed_time_ms = 1000
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "toml-key", cfg.ProjectAPIKey)
	assert.Equal(t, "http://localhost:4566/projects/dev", cfg.ServerURL)
	assert.Equal(t, 10, cfg.Retries.Backoff.InitialIntervalMs)
	assert.Equal(t, 2.0, cfg.Retries.Backoff.Exponent)
	assert.False(t, cfg.Retries.RetryConnectionErrors)
}

func TestLoadConfigFile_EnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvProjectAPIKey, "env-key")
	path := writeFile(t, "lambdadb.yml", "project_api_key: file-key\n")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.ProjectAPIKey)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfigFile(writeFile(t, "lambdadb.json", "{}"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = LoadConfigFile(writeFile(t, "lambdadb.yaml", "project_api_key: [oops"))
	assert.ErrorContains(t, err, "parse config")
}

func TestNewClient_InvalidConfig(t *testing.T) {
	clearEnv(t)

	_, err := NewClient(DefaultConfig())
	assert.Error(t, err)
}

func TestConfig_ServerURLFor(t *testing.T) {
	cfg := DefaultConfig().WithBaseURL("https://api.lambdadb.ai/").WithProjectName("my project")
	u, err := cfg.ServerURLFor()
	require.NoError(t, err)
	assert.Equal(t, "https://api.lambdadb.ai/projects/my%20project", u)

	cfg.WithServerURL("http://localhost:8080/projects/dev/")
	u, err = cfg.ServerURLFor()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/projects/dev", u)
}
