package types

// Status is the fetch lifecycle state of a search session
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// SearchState is the view model observed by the display layer
type SearchState struct {
	Seq             uint64          `json:"seq"`
	Query           string          `json:"query"`
	Status          Status          `json:"status"`
	Results         []*SearchResult `json:"results"`
	RelatedKeywords []string        `json:"relatedKeywords"`
	ErrorMessage    *string         `json:"errorMessage,omitempty"`
	CurrentPage     int             `json:"currentPage"`

	// Err is the failure behind ErrorMessage, set only when Status is StatusFailed
	Err *SearchError `json:"-"`
}

// NewSearchState returns the initial idle state
func NewSearchState() *SearchState {
	return &SearchState{
		Status:          StatusIdle,
		Results:         []*SearchResult{},
		RelatedKeywords: []string{},
		CurrentPage:     1,
	}
}

// Clone returns a deep copy safe to hand to readers
func (s *SearchState) Clone() *SearchState {
	c := *s

	c.Results = make([]*SearchResult, len(s.Results))
	for i, r := range s.Results {
		c.Results[i] = r.Clone()
	}

	c.RelatedKeywords = append([]string{}, s.RelatedKeywords...)

	if s.ErrorMessage != nil {
		msg := *s.ErrorMessage
		c.ErrorMessage = &msg
	}

	return &c
}
