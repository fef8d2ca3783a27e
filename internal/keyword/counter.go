package keyword

import "strings"

// Counter computes term frequencies over free text.
//
// Tokens are whitespace-delimited and compared verbatim: "Food" and "food"
// are different terms and trailing punctuation stays part of the token.
type Counter struct{}

// NewCounter creates a keyword counter
func NewCounter() *Counter {
	return &Counter{}
}

// Count returns the frequency of every token in text
func (c *Counter) Count(text string) map[string]int {
	tokens := strings.Fields(text)
	counts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return counts
}
