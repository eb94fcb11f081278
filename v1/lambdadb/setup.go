package lambdadb

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/lambdadb/lambdadb-go/v1/observability"
)

// LambdaDBClient talks to one LambdaDB project. It is safe for concurrent use.
type LambdaDBClient struct {
	cfg *Config

	transport Transport

	// httpClient is set when the client owns the default transport.
	httpClient *http.Client

	logger Logger

	observer observability.Observer

	tracer Tracer

	validate *validator.Validate

	collections *Collections
}

// NewClient creates a client with the default HTTP transport.
//
// The configuration is finalized (defaults, environment overrides and
// validation) before use; an invalid configuration is returned as an error.
//
// Example:
//
//	cfg := lambdadb.DefaultConfig().WithProjectAPIKey(apiKey)
//	client, err := lambdadb.NewClient(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to initialize LambdaDB client: %w", err)
//	}
//
//	// Optionally attach logger and observer
//	client = client.
//	    WithLogger(myLogger).
//	    WithObserver(myObserver)
func NewClient(cfg *Config) (*LambdaDBClient, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{}
	c := &LambdaDBClient{
		cfg:        cfg,
		transport:  NewHTTPTransport(httpClient),
		httpClient: httpClient,
		validate:   validator.New(),
	}
	c.collections = &Collections{client: c}
	return c, nil
}

// Config returns the finalized configuration. It must not be modified.
func (c *LambdaDBClient) Config() *Config {
	return c.cfg
}

// WithTransport replaces the transport and returns the client for chaining.
// A nil transport, including a typed nil pointer, makes every network
// operation fail with ErrTransportUnavailable.
func (c *LambdaDBClient) WithTransport(t Transport) *LambdaDBClient {
	if isNilTransport(t) {
		t = nil
	}
	c.transport = t
	c.httpClient = nil
	return c
}

// WithLogger sets the logger for this client and returns the client for method chaining.
//
// Example:
//
//	client := client.WithObserver(myObserver).WithLogger(myLogger)
func (c *LambdaDBClient) WithLogger(logger Logger) *LambdaDBClient {
	c.logger = logger
	return c
}

// WithObserver attaches an observer that is notified of every request the
// client sends, including out-of-band downloads and bulk uploads.
func (c *LambdaDBClient) WithObserver(observer observability.Observer) *LambdaDBClient {
	c.observer = observer
	return c
}

// WithTracer attaches a tracer. Each request then runs in its own span and
// carries the trace context to the service.
func (c *LambdaDBClient) WithTracer(tracer Tracer) *LambdaDBClient {
	c.tracer = tracer
	return c
}

// Collections returns the project-level collection operations.
func (c *LambdaDBClient) Collections() *Collections {
	return c.collections
}

// Collection returns a handle scoped to the named collection. No request is
// sent until an operation is called on it.
func (c *LambdaDBClient) Collection(name string) *Collection {
	return &Collection{
		client: c,
		name:   name,
		docs:   &CollectionDocs{client: c, collection: name},
	}
}

// Close releases idle connections held by the default transport.
func (c *LambdaDBClient) Close() error {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}

func (c *LambdaDBClient) validateStruct(v any) error {
	if err := c.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return nil
}

func (c *LambdaDBClient) validateCollectionName(name string) error {
	if err := c.validate.Var(name, "required"); err != nil {
		return fmt.Errorf("%w: collection name is required", ErrInvalidArgument)
	}
	return nil
}

func isNilTransport(t Transport) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
		return v.IsNil()
	}
	return false
}
