package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

// Response is the raw outcome of one round trip to the search backend
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is 2xx
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport performs a single GET against the search backend.
// Implementations must not retry.
type Transport interface {
	// Fetch issues the request and returns the status code and body.
	// A non-nil error means no HTTP response was obtained.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Name returns the transport name
	Name() types.TransportName
}

// Constructor builds a transport from the client configuration
type Constructor func(config *types.ClientConfig) (Transport, error)

// Factory creates transport instances by name
type Factory struct {
	mu           sync.RWMutex
	constructors map[types.TransportName]Constructor
}

// NewFactory creates a new transport factory
func NewFactory() *Factory {
	f := &Factory{
		constructors: make(map[types.TransportName]Constructor),
	}

	// Register built-in transports
	f.Register(types.TransportHTTP, NewHTTPTransport)
	f.Register(types.TransportMock, func(config *types.ClientConfig) (Transport, error) {
		return NewMockTransport(config), nil
	})

	return f
}

// Register registers a transport constructor
func (f *Factory) Register(name types.TransportName, constructor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[name] = constructor
}

// Create creates the transport named by the configuration
func (f *Factory) Create(config *types.ClientConfig) (Transport, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	f.mu.RLock()
	constructor, exists := f.constructors[config.Transport]
	f.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", types.ErrTransportNotFound, config.Transport)
	}

	return constructor(config)
}

// ListTransports returns the names of all registered transports
func (f *Factory) ListTransports() []types.TransportName {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]types.TransportName, 0, len(f.constructors))
	for name := range f.constructors {
		names = append(names, name)
	}
	return names
}
