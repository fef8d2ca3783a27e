package transport

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

// MockReply is a canned backend answer
type MockReply struct {
	StatusCode int           // defaults to 200
	Body       string        // raw JSON
	Err        error         // returned instead of a response when set
	Delay      time.Duration // simulated latency, honours ctx cancellation
}

// DefaultMockBody is served for queries without a fixture
const DefaultMockBody = `{
  "results": [
    {"title": "Example Page 1", "url": "https://example.com/1", "aggregatedScore": 1.0},
    {"title": "Example Page 2", "url": "https://example.com/2", "aggregatedScore": 0.5}
  ],
  "relatedKeywords": []
}`

// MockTransport answers from an in-memory fixture table keyed by query
type MockTransport struct {
	queryParam string

	mu       sync.RWMutex
	fixtures map[string]*MockReply
	fallback *MockReply

	calls atomic.Int64
}

// NewMockTransport creates a mock transport that serves DefaultMockBody
func NewMockTransport(config *types.ClientConfig) *MockTransport {
	param := types.DefaultClientConfig().QueryParam
	if config != nil && config.QueryParam != "" {
		param = config.QueryParam
	}
	return &MockTransport{
		queryParam: param,
		fixtures:   make(map[string]*MockReply),
		fallback:   &MockReply{Body: DefaultMockBody},
	}
}

// Name returns the transport name
func (m *MockTransport) Name() types.TransportName {
	return types.TransportMock
}

// Set registers the reply for a query
func (m *MockTransport) Set(query string, reply *MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixtures[query] = reply
}

// SetFallback replaces the reply used for unknown queries
func (m *MockTransport) SetFallback(reply *MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = reply
}

// Calls returns how many times Fetch was invoked
func (m *MockTransport) Calls() int {
	return int(m.calls.Load())
}

// Fetch looks up the reply for the query parameter of rawURL
func (m *MockTransport) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	m.calls.Add(1)

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	query := u.Query().Get(m.queryParam)

	m.mu.RLock()
	reply, ok := m.fixtures[query]
	if !ok {
		reply = m.fallback
	}
	m.mu.RUnlock()

	if reply.Delay > 0 {
		timer := time.NewTimer(reply.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if reply.Err != nil {
		return nil, reply.Err
	}

	status := reply.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	return &Response{StatusCode: status, Body: []byte(reply.Body)}, nil
}
