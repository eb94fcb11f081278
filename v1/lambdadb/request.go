package lambdadb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/otel/trace"
)

const (
	apiKeyHeader    = "x-api-key"
	requestIDHeader = "X-Request-Id"
	contentTypeJSON = "application/json"
)

// exchange is one HTTP round trip as seen by the observer, tracer and logger.
type exchange struct {
	operation   string
	collection  string
	subResource string
	method      string
	url         string
	header      http.Header
	body        []byte

	// propagate injects the trace context into the request headers.
	propagate bool

	// failure converts a non-2xx response into an error.
	failure func(*Response) error
}

// do sends ex through the transport. Transport errors are returned as is;
// non-2xx responses are turned into errors by ex.failure.
func (c *LambdaDBClient) do(ctx context.Context, ex exchange, opts RequestOptions) (*Response, error) {
	if c.transport == nil {
		return nil, ErrTransportUnavailable
	}

	header := ex.header
	if header == nil {
		header = http.Header{}
	}
	for key, value := range opts.HTTPHeaders {
		header.Set(key, value)
	}
	requestID := uuid.NewString()
	header.Set(requestIDHeader, requestID)

	fields := map[string]interface{}{
		"operation":  ex.operation,
		"method":     ex.method,
		"request_id": requestID,
	}
	if ex.collection != "" {
		fields["collection"] = ex.collection
	}

	var span trace.Span
	if c.tracer != nil {
		ctx, span = c.tracer.StartSpan(ctx, "lambdadb."+ex.operation)
		defer span.End()
		c.tracer.SetAttributes(span, fields)
		if ex.propagate {
			for key, value := range c.tracer.GetCarrier(ctx) {
				header.Set(key, value)
			}
		}
	}

	start := time.Now()
	resp, err := c.transport.Do(ctx, &Request{
		Method:  ex.method,
		URL:     ex.url,
		Header:  header,
		Body:    ex.body,
		Timeout: effectiveTimeout(opts, c.cfg),
		Retries: effectiveRetries(opts, c.cfg),
	})
	if err == nil && !resp.IsSuccess() && ex.failure != nil {
		err = ex.failure(resp)
	}
	duration := time.Since(start)

	size := int64(len(ex.body))
	metadata := map[string]interface{}{
		"method":     ex.method,
		"request_id": requestID,
	}
	if resp != nil {
		metadata["status_code"] = resp.StatusCode
		if size == 0 {
			size = int64(len(resp.Body))
		}
	}
	c.observeOperation(ex.operation, ex.collection, ex.subResource, duration, err, size, metadata)

	fields["duration_ms"] = duration.Milliseconds()
	if err != nil {
		if span != nil {
			c.tracer.RecordErrorOnSpan(span, err)
		}
		c.logError(ctx, "LambdaDB request failed", err, fields)
		return nil, err
	}

	c.logDebug(ctx, "LambdaDB request completed", fields)
	return resp, nil
}

// apiCall is a request to the LambdaDB service, relative to the server URL.
type apiCall struct {
	operation  string
	collection string
	method     string
	path       string
	query      url.Values
	body       any
}

// call sends an authenticated JSON request to the service and decodes the
// answer into out, which may be nil.
func (c *LambdaDBClient) call(ctx context.Context, op apiCall, opts RequestOptions, out any) error {
	if c.transport == nil {
		return ErrTransportUnavailable
	}

	base, err := c.serverURL(opts)
	if err != nil {
		return err
	}
	target := base + op.path
	if len(op.query) > 0 {
		target += "?" + op.query.Encode()
	}

	header := http.Header{}
	header.Set("Accept", contentTypeJSON)
	header.Set(apiKeyHeader, c.cfg.ProjectAPIKey)
	if c.cfg.UserAgent != "" {
		header.Set("User-Agent", c.cfg.UserAgent)
	}
	for key, value := range c.cfg.HTTPHeaders {
		header.Set(key, value)
	}

	var body []byte
	if op.body != nil {
		body, err = json.Marshal(op.body)
		if err != nil {
			return fmt.Errorf("lambdadb: failed to encode %s request: %w", op.operation, err)
		}
		header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := c.do(ctx, exchange{
		operation:  op.operation,
		collection: op.collection,
		method:     op.method,
		url:        target,
		header:     header,
		body:       body,
		propagate:  true,
		failure: func(r *Response) error {
			return newAPIError(op.operation, r)
		},
	}, opts)
	if err != nil {
		return err
	}

	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("lambdadb: failed to decode %s response: %w", op.operation, err)
	}
	return nil
}

func newAPIError(operation string, resp *Response) *APIError {
	apiErr := &APIError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Body:       resp.Text(),
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(resp.Body, &payload) == nil {
		apiErr.Message = payload.Message
	}
	return apiErr
}

// serverURL resolves the per-call server URL, falling back to the configuration.
func (c *LambdaDBClient) serverURL(opts RequestOptions) (string, error) {
	if opts.ServerURL != "" {
		return strings.TrimRight(opts.ServerURL, "/"), nil
	}
	return c.cfg.ServerURLFor()
}

// pathParam renders a path parameter in OpenAPI "simple" style.
func pathParam(name, value string) (string, error) {
	p, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
	if err != nil {
		return "", fmt.Errorf("%w: invalid %s: %w", ErrInvalidArgument, name, err)
	}
	return p, nil
}

func collectionPath(name, suffix string) (string, error) {
	p, err := pathParam("collectionName", name)
	if err != nil {
		return "", err
	}
	return "/collections/" + p + suffix, nil
}

func pageQuery(size int, pageToken string) url.Values {
	q := url.Values{}
	if size > 0 {
		q.Set("size", fmt.Sprint(size))
	}
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	return q
}
