package mockbackend

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is one searchable page of the catalogue
type Document struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Body    string `json:"body"`
}

// DefaultCatalogue is served when no fixture file is configured
func DefaultCatalogue() []Document {
	return []Document{
		{
			Title:   "Shilin Night Market Guide",
			URL:     "https://example.com/taipei/shilin-night-market",
			Snippet: "night market food stalls and night snacks in Shilin",
			Body:    "The largest night market in Taipei. Fried chicken, oyster omelette and bubble tea line the lanes every night.",
		},
		{
			Title:   "Raohe Street Night Market",
			URL:     "https://example.com/taipei/raohe",
			Snippet: "pepper buns and herbal soup at the Raohe night market",
			Body:    "Raohe is a single lane market famous for pepper buns baked in clay ovens.",
		},
		{
			Title:   "Tainan Garden Night Market",
			URL:     "https://example.com/tainan/garden",
			Snippet: "weekend market with games and street food",
			Body:    "Open Thursday, Saturday and Sunday nights, Garden night market is the biggest in Tainan.",
		},
		{
			Title:   "Feng Chia Night Market Food List",
			URL:     "https://example.com/taichung/fengchia",
			Snippet: "student favourite food market in Taichung",
			Body:    "Stinky tofu, grilled squid and large fried chicken cutlets near Feng Chia University.",
		},
		{
			Title:   "Ningxia Night Market",
			URL:     "https://example.com/taipei/ningxia",
			Snippet: "compact night market known for traditional food",
			Body:    "Taro balls, oyster omelette and braised pork rice within a short walk.",
		},
		{
			Title:   "Kenting Street Night Market",
			URL:     "https://example.com/pingtung/kenting",
			Snippet: "beach town night market with seafood",
			Body:    "Grilled seafood and cocktails along the main road of Kenting every night.",
		},
	}
}

// LoadCatalogue reads a JSON array of documents from path
func LoadCatalogue(path string) ([]Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue: %w", err)
	}

	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}

	for i, d := range docs {
		if d.Title == "" || d.URL == "" {
			return nil, fmt.Errorf("catalogue entry %d: title and url are required", i)
		}
	}

	return docs, nil
}
