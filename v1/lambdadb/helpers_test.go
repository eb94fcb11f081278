package lambdadb

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lambdadb/lambdadb-go/v1/observability"
)

const testServerURL = "https://api.test/projects/demo"

// TestObserver records every operation it is notified of.
type TestObserver struct {
	mu         sync.Mutex
	operations []observability.OperationContext
}

func (t *TestObserver) ObserveOperation(ctx observability.OperationContext) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.operations = append(t.operations, ctx)
}

func (t *TestObserver) GetOperations() []observability.OperationContext {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]observability.OperationContext, len(t.operations))
	copy(out, t.operations)
	return out
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	clearEnv(t)
	return DefaultConfig().
		WithProjectAPIKey("test-key").
		WithServerURL(testServerURL).
		WithRetries(RetryConfig{Strategy: RetryStrategyNone})
}

// newMockClient returns a client whose transport is a gomock MockTransport.
func newMockClient(t *testing.T) (*LambdaDBClient, *MockTransport) {
	t.Helper()
	ctrl := gomock.NewController(t)
	transport := NewMockTransport(ctrl)

	client, err := NewClient(testConfig(t))
	require.NoError(t, err)
	client.WithTransport(transport)
	return client, transport
}

func jsonResponse(t *testing.T, status int, v any) *Response {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return &Response{StatusCode: status, Header: http.Header{}, Body: body}
}

func rawResponse(status int, body string) *Response {
	return &Response{StatusCode: status, Header: http.Header{}, Body: []byte(body)}
}

// requestMatcher matches a transport request by method and URL.
type requestMatcher struct {
	method string
	url    string
}

func requestTo(method, url string) gomock.Matcher {
	return requestMatcher{method: method, url: url}
}

func (m requestMatcher) Matches(x any) bool {
	r, ok := x.(*Request)
	return ok && r.Method == m.method && r.URL == m.url
}

func (m requestMatcher) String() string {
	return m.method + " " + m.url
}
