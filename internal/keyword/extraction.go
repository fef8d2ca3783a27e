package keyword

import "sort"

// Extractor turns counter output into an ExtractionResult
type Extractor struct {
	counter *Counter
}

// NewExtractor creates an extractor backed by a fresh Counter
func NewExtractor() *Extractor {
	return &Extractor{counter: NewCounter()}
}

// Extract counts the terms of text and orders them by frequency, highest
// first, breaking ties by term so that equal input gives equal output.
func (e *Extractor) Extract(text string) *ExtractionResult {
	counts := e.counter.Count(text)

	keywords := make([]Keyword, 0, len(counts))
	for term, freq := range counts {
		keywords = append(keywords, Keyword{Term: term, Frequency: freq})
	}

	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Frequency != keywords[j].Frequency {
			return keywords[i].Frequency > keywords[j].Frequency
		}
		return keywords[i].Term < keywords[j].Term
	})

	return &ExtractionResult{
		Keywords:      keywords,
		TotalKeywords: len(keywords),
	}
}

// Top returns at most n of the most frequent terms in text
func (e *Extractor) Top(text string, n int) []string {
	if n <= 0 {
		return []string{}
	}

	terms := e.Extract(text).Terms()
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
