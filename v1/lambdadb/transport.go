package lambdadb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Request is a single HTTP exchange handed to a Transport.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte

	// Timeout bounds the whole exchange including retries. Zero means none.
	Timeout time.Duration

	// Retries is the policy the transport applies, nil means no retries.
	Retries *RetryConfig
}

// Response is the fully read answer to a Request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// IsSuccess reports whether the status is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport performs HTTP exchanges for the client. Implementations own
// connection handling, timeouts and retries; the client never retries on its
// own and returns transport errors unchanged.
//
//go:generate mockgen -source=transport.go -destination=mock_transport.go -package=lambdadb
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// HTTPTransport is the default Transport built on net/http. It retries 429
// and 5xx responses, and optionally connection errors, according to
// Request.Retries.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport returns a transport using client, or a fresh http.Client
// when client is nil.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPTransport{client: client}
}

// retryableStatusError marks a response that should be retried.
type retryableStatusError struct {
	statusCode int
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.statusCode)
}

// Do sends req, applying its timeout and retry policy. When retries are
// exhausted on a retryable status, the last response is returned without error.
func (t *HTTPTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	if req.Retries == nil || req.Retries.Strategy != RetryStrategyBackoff {
		return t.send(ctx, req)
	}

	var last *Response
	operation := func() error {
		resp, err := t.send(ctx, req)
		if err != nil {
			if ctx.Err() != nil || !req.Retries.RetryConnectionErrors {
				return backoff.Permanent(err)
			}
			return err
		}
		last = resp
		if isRetryableStatus(resp.StatusCode) {
			return &retryableStatusError{statusCode: resp.StatusCode}
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(newBackOff(req.Retries.Backoff), ctx))
	if err != nil {
		var rs *retryableStatusError
		if errors.As(err, &rs) && last != nil {
			return last, nil
		}
		return nil, err
	}
	return last, nil
}

func (t *HTTPTransport) send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if req.Body != nil {
		httpReq.ContentLength = int64(len(req.Body))
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func newBackOff(cfg BackoffConfig) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if cfg.InitialIntervalMs > 0 {
		b.InitialInterval = time.Duration(cfg.InitialIntervalMs) * time.Millisecond
	}
	if cfg.MaxIntervalMs > 0 {
		b.MaxInterval = time.Duration(cfg.MaxIntervalMs) * time.Millisecond
	}
	if cfg.Exponent > 0 {
		b.Multiplier = cfg.Exponent
	}
	if cfg.MaxElapsedTimeMs > 0 {
		b.MaxElapsedTime = time.Duration(cfg.MaxElapsedTimeMs) * time.Millisecond
	}
	return b
}
