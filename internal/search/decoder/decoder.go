// Package decoder validates backend search payloads and converts them into
// typed results.
package decoder

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

// Decoder parses raw response bodies
type Decoder struct {
	newID func() string
}

// New creates a decoder that assigns random UUIDs to results
func New() *Decoder {
	return &Decoder{newID: uuid.NewString}
}

// Decode parses raw into a SearchResponse. Absent or null "results" and
// "relatedKeywords" decode to empty slices; any type mismatch is a
// DecodeError.
func (d *Decoder) Decode(raw []byte) (*types.SearchResponse, error) {
	if !gjson.ValidBytes(raw) {
		return nil, types.NewDecodeError("invalid JSON payload", nil)
	}

	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, types.NewDecodeError("payload is not a JSON object", nil)
	}

	results, err := d.decodeResults(root.Get("results"))
	if err != nil {
		return nil, err
	}

	related, err := decodeStrings(root.Get("relatedKeywords"), "relatedKeywords")
	if err != nil {
		return nil, err
	}

	return &types.SearchResponse{
		Results:         results,
		RelatedKeywords: related,
	}, nil
}

func (d *Decoder) decodeResults(v gjson.Result) ([]*types.SearchResult, error) {
	if !present(v) {
		return []*types.SearchResult{}, nil
	}
	if !v.IsArray() {
		return nil, types.NewDecodeError("results is not an array", nil)
	}

	items := v.Array()
	results := make([]*types.SearchResult, 0, len(items))
	for i, item := range items {
		r, err := d.decodeResult(i, item)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (d *Decoder) decodeResult(i int, item gjson.Result) (*types.SearchResult, error) {
	if !item.IsObject() {
		return nil, types.NewDecodeError(fmt.Sprintf("results[%d] is not an object", i), nil)
	}

	title := item.Get("title")
	if title.Type != gjson.String {
		return nil, types.NewDecodeError(fmt.Sprintf("results[%d].title is not a string", i), nil)
	}

	link := item.Get("url")
	if link.Type != gjson.String {
		return nil, types.NewDecodeError(fmt.Sprintf("results[%d].url is not a string", i), nil)
	}

	score := item.Get("aggregatedScore")
	if score.Type != gjson.Number {
		return nil, types.NewDecodeError(fmt.Sprintf("results[%d].aggregatedScore is not a number", i), nil)
	}

	snippet := item.Get("snippet")
	if present(snippet) && snippet.Type != gjson.String {
		return nil, types.NewDecodeError(fmt.Sprintf("results[%d].snippet is not a string", i), nil)
	}

	details, err := decodeScoreDetails(i, item.Get("scoreDetails"))
	if err != nil {
		return nil, err
	}

	return &types.SearchResult{
		ID:              d.newID(),
		Title:           title.String(),
		URL:             link.String(),
		AggregatedScore: score.Float(),
		Snippet:         snippet.String(),
		ScoreDetails:    details,
	}, nil
}

func decodeScoreDetails(i int, v gjson.Result) (map[string]string, error) {
	if !present(v) {
		return nil, nil
	}
	if !v.IsObject() {
		return nil, types.NewDecodeError(fmt.Sprintf("results[%d].scoreDetails is not an object", i), nil)
	}

	details := make(map[string]string)
	var bad string
	v.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			bad = key.String()
			return false
		}
		details[key.String()] = value.String()
		return true
	})
	if bad != "" {
		return nil, types.NewDecodeError(fmt.Sprintf("results[%d].scoreDetails[%q] is not a string", i, bad), nil)
	}
	return details, nil
}

func decodeStrings(v gjson.Result, field string) ([]string, error) {
	if !present(v) {
		return []string{}, nil
	}
	if !v.IsArray() {
		return nil, types.NewDecodeError(field+" is not an array", nil)
	}

	items := v.Array()
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			return nil, types.NewDecodeError(fmt.Sprintf("%s[%d] is not a string", field, i), nil)
		}
		out = append(out, item.String())
	}
	return out, nil
}

// present reports whether the key exists with a non-null value
func present(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}
