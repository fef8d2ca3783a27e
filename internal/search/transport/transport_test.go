package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/nightmarket-search/internal/pkg/redis"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

func TestNewFactory(t *testing.T) {
	factory := NewFactory()
	assert.NotNil(t, factory)

	names := factory.ListTransports()
	assert.Contains(t, names, types.TransportHTTP)
	assert.Contains(t, names, types.TransportMock)
}

func TestFactory_Create(t *testing.T) {
	factory := NewFactory()

	tests := []struct {
		name     string
		config   *types.ClientConfig
		wantType string
		wantErr  error
	}{
		{
			name: "create http transport",
			config: &types.ClientConfig{
				BaseURL:   "http://localhost:8080",
				Path:      "/search",
				Transport: types.TransportHTTP,
				PageSize:  10,
			},
			wantType: "*transport.HTTPTransport",
		},
		{
			name: "create mock transport",
			config: &types.ClientConfig{
				Path:      "/api/search",
				Transport: types.TransportMock,
				PageSize:  10,
			},
			wantType: "*transport.MockTransport",
		},
		{
			name: "missing base url",
			config: &types.ClientConfig{
				Path:      "/search",
				Transport: types.TransportHTTP,
				PageSize:  10,
			},
			wantErr: types.ErrInvalidBaseURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := factory.Create(tt.config)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, fmt.Sprintf("%T", tr))
		})
	}
}

func TestFactory_CreateUnregistered(t *testing.T) {
	factory := &Factory{constructors: map[types.TransportName]Constructor{}}

	_, err := factory.Create(&types.ClientConfig{
		BaseURL:   "http://localhost",
		Path:      "/search",
		Transport: types.TransportHTTP,
		PageSize:  10,
	})
	assert.ErrorIs(t, err, types.ErrTransportNotFound)
}

func TestHTTPTransport_Fetch(t *testing.T) {
	var gotQuery, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotAccept = r.Header.Get("Accept")
		if gotQuery == "boom" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	tr := NewHTTPTransportWithClient(server.Client())

	resp, err := tr.Fetch(context.Background(), server.URL+"/search?query=night+market")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.OK())
	assert.JSONEq(t, `{"results":[]}`, string(resp.Body))
	assert.Equal(t, "night market", gotQuery)
	assert.Equal(t, "application/json", gotAccept)

	resp, err = tr.Fetch(context.Background(), server.URL+"/search?query=boom")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, resp.OK())
}

func TestHTTPTransport_FetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	tr := NewHTTPTransportWithClient(NewHTTPClient(time.Second))
	_, err := tr.Fetch(context.Background(), url+"/search?query=x")
	assert.Error(t, err)
}

func TestHTTPTransport_FetchCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := NewHTTPTransportWithClient(server.Client())
	_, err := tr.Fetch(ctx, server.URL+"/search?query=x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockTransport_Fetch(t *testing.T) {
	mock := NewMockTransport(nil)
	mock.Set("night market", &MockReply{Body: `{"results":[],"relatedKeywords":["food"]}`})
	mock.Set("down", &MockReply{Err: errors.New("connection refused")})
	mock.Set("500", &MockReply{StatusCode: http.StatusInternalServerError})

	ctx := context.Background()

	resp, err := mock.Fetch(ctx, "http://x/search?query=night+market")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "food")

	resp, err = mock.Fetch(ctx, "http://x/search?query=anything")
	require.NoError(t, err)
	assert.Equal(t, DefaultMockBody, string(resp.Body))

	_, err = mock.Fetch(ctx, "http://x/search?query=down")
	assert.EqualError(t, err, "connection refused")

	resp, err = mock.Fetch(ctx, "http://x/search?query=500")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	assert.Equal(t, 4, mock.Calls())
}

func TestMockTransport_DelayHonoursCancel(t *testing.T) {
	mock := NewMockTransport(nil)
	mock.SetFallback(&MockReply{Body: `{}`, Delay: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := mock.Fetch(ctx, "http://x/search?query=slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", redis.ErrNil
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	return nil
}

func TestCachedTransport_Fetch(t *testing.T) {
	mock := NewMockTransport(nil)
	mock.Set("500", &MockReply{StatusCode: http.StatusInternalServerError, Body: "oops"})
	cache := newMemoryCache()

	tr := NewCachedTransport(mock, cache, time.Minute, nil)
	assert.Equal(t, types.TransportMock, tr.Name())

	ctx := context.Background()
	url := "http://x/search?query=cached"

	first, err := tr.Fetch(ctx, url)
	require.NoError(t, err)
	second, err := tr.Fetch(ctx, url)
	require.NoError(t, err)

	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, 1, mock.Calls())
	assert.Equal(t, 1, cache.sets)

	// non-2xx responses are never cached
	for i := 0; i < 2; i++ {
		resp, err := tr.Fetch(ctx, "http://x/search?query=500")
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}
	assert.Equal(t, 3, mock.Calls())
	assert.Equal(t, 1, cache.sets)
}
