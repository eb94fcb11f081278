package lambdadb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetries() *RetryConfig {
	return &RetryConfig{
		Strategy: RetryStrategyBackoff,
		Backoff: BackoffConfig{
			InitialIntervalMs: 1,
			MaxIntervalMs:     5,
			Exponent:          1.5,
			MaxElapsedTimeMs:  500,
		},
	}
}

func TestHTTPTransport_SendsRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/docs?size=2", r.URL.RequestURI())
		assert.Equal(t, "v", r.Header.Get("X-Test"))
		assert.JSONEq(t, `{"a":1}`, string(body))

		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	resp, err := NewHTTPTransport(nil).Do(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    server.URL + "/docs?size=2",
		Header: http.Header{"X-Test": []string{"v"}},
		Body:   []byte(`{"a":1}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, `{"message":"ok"}`, resp.Text())
	assert.Equal(t, contentTypeJSON, resp.Header.Get("Content-Type"))
}

func TestHTTPTransport_RetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`ok`))
	}))
	defer server.Close()

	resp, err := NewHTTPTransport(nil).Do(context.Background(), &Request{
		Method:  http.MethodGet,
		URL:     server.URL,
		Retries: fastRetries(),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPTransport_ReturnsLastResponseWhenRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	retries := fastRetries()
	retries.Backoff.MaxElapsedTimeMs = 30

	resp, err := NewHTTPTransport(nil).Do(context.Background(), &Request{
		Method:  http.MethodGet,
		URL:     server.URL,
		Retries: retries,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Greater(t, calls.Load(), int32(1))
}

func TestHTTPTransport_NoRetryWithoutStrategy(t *testing.T) {
	for _, retries := range []*RetryConfig{nil, {Strategy: RetryStrategyNone}} {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))

		resp, err := NewHTTPTransport(nil).Do(context.Background(), &Request{
			Method:  http.MethodGet,
			URL:     server.URL,
			Retries: retries,
		})
		server.Close()

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, int32(1), calls.Load())
	}
}

func TestHTTPTransport_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	resp, err := NewHTTPTransport(nil).Do(context.Background(), &Request{
		Method:  http.MethodGet,
		URL:     server.URL,
		Retries: fastRetries(),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPTransport_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	start := time.Now()
	_, err := NewHTTPTransport(nil).Do(context.Background(), &Request{
		Method:  http.MethodGet,
		URL:     server.URL,
		Timeout: 50 * time.Millisecond,
		Retries: fastRetries(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHTTPTransport_ConnectionErrorNotRetriedByDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewHTTPTransport(nil).Do(context.Background(), &Request{
		Method:  http.MethodGet,
		URL:     url,
		Retries: fastRetries(),
	})
	assert.Error(t, err)
}

func TestIsRetryableStatus(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		assert.True(t, isRetryableStatus(code), code)
	}
	for _, code := range []int{200, 400, 401, 404, 409, 501} {
		assert.False(t, isRetryableStatus(code), code)
	}
}

func TestNewBackOff(t *testing.T) {
	b := newBackOff(BackoffConfig{InitialIntervalMs: 500, MaxIntervalMs: 60000, Exponent: 1.5, MaxElapsedTimeMs: 3600000})

	assert.Equal(t, 500*time.Millisecond, b.InitialInterval)
	assert.Equal(t, time.Minute, b.MaxInterval)
	assert.Equal(t, 1.5, b.Multiplier)
	assert.Equal(t, time.Hour, b.MaxElapsedTime)
}
