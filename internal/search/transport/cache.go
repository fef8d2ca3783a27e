package transport

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/redis"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

// Cache is the subset of the redis client used for response caching
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// CachedTransport serves repeated queries from a cache.
// Only 2xx bodies are stored; errors and other statuses always go to the inner transport.
type CachedTransport struct {
	inner  Transport
	cache  Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedTransport wraps inner with a response cache
func NewCachedTransport(inner Transport, cache Cache, ttl time.Duration, log *logger.Logger) *CachedTransport {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedTransport{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: log.Named("transport.cache"),
	}
}

// Name returns the name of the wrapped transport
func (t *CachedTransport) Name() types.TransportName {
	return t.inner.Name()
}

// Fetch returns the cached body for url or fetches and stores it
func (t *CachedTransport) Fetch(ctx context.Context, url string) (*Response, error) {
	key := cacheKey(url)

	body, err := t.cache.Get(ctx, key)
	switch {
	case err == nil:
		t.logger.Debug("cache hit", zap.String("url", url))
		return &Response{StatusCode: 200, Body: []byte(body)}, nil
	case !redis.IsNil(err):
		t.logger.Warn("cache lookup failed", zap.String("url", url), zap.Error(err))
	}

	resp, err := t.inner.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if resp.OK() {
		if err := t.cache.Set(ctx, key, resp.Body, t.ttl); err != nil {
			t.logger.Warn("cache store failed", zap.String("url", url), zap.Error(err))
		}
	}

	return resp, nil
}

func cacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return "resp:" + hex.EncodeToString(sum[:])
}
