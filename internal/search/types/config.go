package types

import (
	"net/url"
	"strings"
	"time"
)

type TransportName string

const (
	TransportHTTP TransportName = "http"
	TransportMock TransportName = "mock"
)

// ClientConfig configures how the engine reaches the search backend
type ClientConfig struct {
	BaseURL    string        `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	Path       string        `json:"path" yaml:"path" mapstructure:"path"`                      // "/search" or "/api/search"
	QueryParam string        `json:"query_param" yaml:"query_param" mapstructure:"query_param"` // default: query
	Transport  TransportName `json:"transport" yaml:"transport" mapstructure:"transport"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// Fill related keywords from result snippets when the backend sends none
	DeriveRelatedKeywords bool `json:"derive_related_keywords" yaml:"derive_related_keywords" mapstructure:"derive_related_keywords"`
	RelatedKeywordLimit   int  `json:"related_keyword_limit" yaml:"related_keyword_limit" mapstructure:"related_keyword_limit"`

	// Response cache, only used when a redis client is configured
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// DefaultClientConfig returns the defaults used for unset fields
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Path:                "/search",
		QueryParam:          "query",
		Transport:           TransportHTTP,
		Timeout:             30 * time.Second,
		PageSize:            10,
		RelatedKeywordLimit: 5,
		CacheTTL:            5 * time.Minute,
	}
}

// ApplyDefaults fills zero-valued fields from DefaultClientConfig
func (c *ClientConfig) ApplyDefaults() {
	def := DefaultClientConfig()
	if c.Path == "" {
		c.Path = def.Path
	}
	if c.QueryParam == "" {
		c.QueryParam = def.QueryParam
	}
	if c.Transport == "" {
		c.Transport = def.Transport
	}
	if c.Timeout == 0 {
		c.Timeout = def.Timeout
	}
	if c.PageSize == 0 {
		c.PageSize = def.PageSize
	}
	if c.RelatedKeywordLimit == 0 {
		c.RelatedKeywordLimit = def.RelatedKeywordLimit
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = def.CacheTTL
	}
}

// Validate validates the client configuration
func (c *ClientConfig) Validate() error {
	switch c.Transport {
	case TransportHTTP:
		if c.BaseURL == "" {
			return ErrInvalidBaseURL
		}
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ErrInvalidBaseURL
		}
	case TransportMock:
		// the mock transport ignores the host
	default:
		return ErrInvalidTransport
	}

	if !strings.HasPrefix(c.Path, "/") {
		return ErrInvalidPath
	}
	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}

	return nil
}
