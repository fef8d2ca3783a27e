package keyword

// Keyword is a single term with its occurrence count
type Keyword struct {
	Term      string `json:"term"`
	Frequency int    `json:"frequency"`
}

// ExtractionResult holds the distinct keywords found in a text
type ExtractionResult struct {
	Keywords      []Keyword `json:"keywords"`
	TotalKeywords int       `json:"total_keywords"` // distinct terms, not tokens
}

// Terms returns the keyword terms in result order
func (r *ExtractionResult) Terms() []string {
	terms := make([]string, len(r.Keywords))
	for i, kw := range r.Keywords {
		terms[i] = kw.Term
	}
	return terms
}
