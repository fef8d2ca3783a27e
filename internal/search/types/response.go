package types

// SearchResponse is the decoded backend payload
type SearchResponse struct {
	Results         []*SearchResult `json:"results"`
	RelatedKeywords []string        `json:"relatedKeywords"`
}

// SearchResult represents a single scored result.
// ID is generated locally when the result is decoded and is never sent back
// to the backend.
type SearchResult struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	URL             string            `json:"url"`
	AggregatedScore float64           `json:"aggregatedScore"`
	Snippet         string            `json:"snippet"`
	ScoreDetails    map[string]string `json:"scoreDetails,omitempty"`
}

// Clone returns a deep copy of the result
func (r *SearchResult) Clone() *SearchResult {
	if r == nil {
		return nil
	}
	c := *r
	if r.ScoreDetails != nil {
		c.ScoreDetails = make(map[string]string, len(r.ScoreDetails))
		for k, v := range r.ScoreDetails {
			c.ScoreDetails[k] = v
		}
	}
	return &c
}
