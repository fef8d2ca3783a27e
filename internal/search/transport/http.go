package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 8 << 20

// NewHTTPClient creates a new HTTP client with the specified timeout
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// HTTPTransport talks to a live search backend
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a live transport
func NewHTTPTransport(config *types.ClientConfig) (Transport, error) {
	return &HTTPTransport{client: NewHTTPClient(config.Timeout)}, nil
}

// NewHTTPTransportWithClient wraps an existing client, used by tests
func NewHTTPTransportWithClient(client *http.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

// Name returns the transport name
func (t *HTTPTransport) Name() types.TransportName {
	return types.TransportHTTP
}

// BuildDefaultHeaders builds default HTTP headers
func (t *HTTPTransport) BuildDefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":     "application/json",
		"User-Agent": "NightMarket-Search/1.0",
	}
}

// Fetch executes one GET request. There is no retry.
func (t *HTTPTransport) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range t.BuildDefaultHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
