package lambdadb

import (
	"time"
)

// RequestOptions overrides client defaults for a single call. Zero fields are
// unset.
type RequestOptions struct {
	// Retries replaces the configured retry policy.
	Retries *RetryConfig

	// ServerURL replaces the configured server URL.
	ServerURL string

	// TimeoutMs replaces the configured timeout, in milliseconds.
	TimeoutMs int

	// HTTPHeaders are added to the request, after the configured headers.
	HTTPHeaders map[string]string
}

// CallOption customizes a single call. Options given one by one
// (WithTimeoutMs, WithServerURL, ...) are combined with a consolidated
// WithRequestOptions value by MergeOptions.
type CallOption func(*callOptions)

type callOptions struct {
	individual   RequestOptions
	consolidated *RequestOptions
}

// WithRetries overrides the retry policy for one call.
func WithRetries(r RetryConfig) CallOption {
	return func(o *callOptions) {
		o.individual.Retries = &r
	}
}

// WithServerURL sends one call to a different server URL.
func WithServerURL(serverURL string) CallOption {
	return func(o *callOptions) {
		o.individual.ServerURL = serverURL
	}
}

// WithTimeoutMs overrides the timeout for one call.
func WithTimeoutMs(ms int) CallOption {
	return func(o *callOptions) {
		o.individual.TimeoutMs = ms
	}
}

// WithHTTPHeaders adds headers to one call.
func WithHTTPHeaders(headers map[string]string) CallOption {
	return func(o *callOptions) {
		o.individual.HTTPHeaders = headers
	}
}

// WithRequestOptions supplies all overrides at once. Fields it sets win over
// the individual options; fields it leaves unset fall back to them.
func WithRequestOptions(opts RequestOptions) CallOption {
	return func(o *callOptions) {
		o.consolidated = &opts
	}
}

// MergeOptions resolves the consolidated options against the individually
// given ones. A field set in consolidated wins; otherwise the individual value
// is kept. A timeout counts as set only when positive. Client defaults are applied later, when the request is built.
func MergeOptions(consolidated *RequestOptions, individual RequestOptions) RequestOptions {
	if consolidated == nil {
		return individual
	}

	merged := individual
	if consolidated.Retries != nil {
		merged.Retries = consolidated.Retries
	}
	if consolidated.ServerURL != "" {
		merged.ServerURL = consolidated.ServerURL
	}
	if consolidated.TimeoutMs > 0 {
		merged.TimeoutMs = consolidated.TimeoutMs
	}
	if len(consolidated.HTTPHeaders) > 0 {
		merged.HTTPHeaders = consolidated.HTTPHeaders
	}
	return merged
}

func resolveOptions(opts []CallOption) RequestOptions {
	var co callOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}
	return MergeOptions(co.consolidated, co.individual)
}

// effectiveTimeout returns the per-call timeout, else the configured one,
// else zero (no timeout).
func effectiveTimeout(opts RequestOptions, cfg *Config) time.Duration {
	if opts.TimeoutMs > 0 {
		return time.Duration(opts.TimeoutMs) * time.Millisecond
	}
	if cfg != nil && cfg.TimeoutMs > 0 {
		return time.Duration(cfg.TimeoutMs) * time.Millisecond
	}
	return 0
}

func effectiveRetries(opts RequestOptions, cfg *Config) *RetryConfig {
	if opts.Retries != nil {
		return opts.Retries
	}
	if cfg != nil {
		r := cfg.Retries
		return &r
	}
	return nil
}
