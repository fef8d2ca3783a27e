// Package mockbackend is a self-contained search backend used for local
// development and end-to-end tests.
package mockbackend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lk2023060901/nightmarket-search/internal/keyword"
)

// keywordWeight is applied to every query term
const keywordWeight = 1.0

var stopWords = map[string]struct{}{
	"and": {}, "the": {}, "with": {}, "for": {}, "near": {}, "every": {},
}

// Result is the wire shape of one search hit
type Result struct {
	Title           string            `json:"title"`
	URL             string            `json:"url"`
	AggregatedScore float64           `json:"aggregatedScore"`
	Snippet         string            `json:"snippet,omitempty"`
	ScoreDetails    map[string]string `json:"scoreDetails,omitempty"`
}

// Response is the wire shape of a search answer
type Response struct {
	Results         []Result `json:"results"`
	RelatedKeywords []string `json:"relatedKeywords"`
}

// Engine scores catalogue documents against query terms
type Engine struct {
	docs         []Document
	counter      *keyword.Counter
	extractor    *keyword.Extractor
	relatedLimit int
}

// NewEngine creates an engine over docs
func NewEngine(docs []Document, relatedLimit int) *Engine {
	return &Engine{
		docs:         docs,
		counter:      keyword.NewCounter(),
		extractor:    keyword.NewExtractor(),
		relatedLimit: relatedLimit,
	}
}

// Search returns the matching documents, highest score first. Each query term
// scores occurrence * weight over title, snippet and body. scoreDetails carries
// the formula per term, e.g. "3 * 1.0 = 3".
func (e *Engine) Search(query string) *Response {
	terms := e.counter.Count(strings.ToLower(query))

	results := make([]Result, 0)
	snippets := make([]string, 0)

	for _, doc := range e.docs {
		text := e.counter.Count(strings.ToLower(doc.Title + " " + doc.Snippet + " " + doc.Body))

		var score float64
		details := make(map[string]string)
		for term := range terms {
			occurrence := text[term]
			if occurrence == 0 {
				continue
			}
			termScore := int(float64(occurrence) * keywordWeight)
			score += float64(termScore)
			details[term] = fmt.Sprintf("%d * %.1f = %d", occurrence, keywordWeight, termScore)
		}

		if score == 0 {
			continue
		}

		results = append(results, Result{
			Title:           doc.Title,
			URL:             doc.URL,
			AggregatedScore: score,
			Snippet:         doc.Snippet,
			ScoreDetails:    details,
		})
		snippets = append(snippets, strings.ToLower(doc.Snippet))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AggregatedScore > results[j].AggregatedScore
	})

	return &Response{
		Results:         results,
		RelatedKeywords: e.related(terms, snippets),
	}
}

// related returns the most frequent snippet terms that are not query terms
func (e *Engine) related(query map[string]int, snippets []string) []string {
	related := make([]string, 0, e.relatedLimit)
	for _, term := range e.extractor.Extract(strings.Join(snippets, " ")).Terms() {
		if len(related) >= e.relatedLimit {
			break
		}
		if _, ok := query[term]; ok || len(term) < 3 {
			continue
		}
		if _, ok := stopWords[term]; ok {
			continue
		}
		related = append(related, term)
	}
	return related
}
