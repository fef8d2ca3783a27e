package types

import (
	"net/url"
	"strings"
)

// SearchRequest represents one dispatched search call
type SearchRequest struct {
	Seq   uint64 `json:"seq"`
	Query string `json:"query"`
}

// NormalizeQuery trims the raw user input. The boolean is false when nothing
// is left to search for.
func NormalizeQuery(raw string) (string, bool) {
	q := strings.TrimSpace(raw)
	return q, q != ""
}

// BuildURL builds the backend search URL for an already normalized query
func BuildURL(cfg *ClientConfig, query string) string {
	params := url.Values{}
	params.Set(cfg.QueryParam, query)
	return strings.TrimRight(cfg.BaseURL, "/") + cfg.Path + "?" + params.Encode()
}
