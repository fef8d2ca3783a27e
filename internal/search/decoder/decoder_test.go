package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

func TestDecode_EmptySequences(t *testing.T) {
	resp, err := New().Decode([]byte(`{"results": [], "relatedKeywords": []}`))
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.RelatedKeywords)
	assert.NotNil(t, resp.Results)
	assert.NotNil(t, resp.RelatedKeywords)
}

func TestDecode_MissingFieldsDefaultToEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `{"results": null, "relatedKeywords": null}`} {
		resp, err := New().Decode([]byte(body))
		require.NoError(t, err, body)
		assert.Equal(t, []*types.SearchResult{}, resp.Results)
		assert.Equal(t, []string{}, resp.RelatedKeywords)
	}
}

func TestDecode_Results(t *testing.T) {
	body := `{
		"results": [
			{"title": "Shilin Night Market", "url": "https://a.example", "aggregatedScore": 7.5,
			 "snippet": "food stalls", "scoreDetails": {"food": "3 * 2.5 = 7"}},
			{"title": "Raohe", "url": "https://b.example", "aggregatedScore": 3, "snippet": "pepper buns",
			 "scoreDetails": null},
			{"title": "Ningxia", "url": "https://c.example", "aggregatedScore": -1.25}
		],
		"relatedKeywords": ["food", "night"]
	}`

	resp, err := New().Decode([]byte(body))
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)

	first := resp.Results[0]
	assert.Equal(t, "Shilin Night Market", first.Title)
	assert.Equal(t, "https://a.example", first.URL)
	assert.Equal(t, 7.5, first.AggregatedScore)
	assert.Equal(t, "food stalls", first.Snippet)
	assert.Equal(t, map[string]string{"food": "3 * 2.5 = 7"}, first.ScoreDetails)

	assert.Equal(t, "Raohe", resp.Results[1].Title)
	assert.Nil(t, resp.Results[1].ScoreDetails)
	assert.Equal(t, "", resp.Results[2].Snippet)
	assert.Equal(t, -1.25, resp.Results[2].AggregatedScore)

	assert.Equal(t, []string{"food", "night"}, resp.RelatedKeywords)
}

func TestDecode_AssignsUniqueIDs(t *testing.T) {
	body := `{"results": [
		{"title": "A", "url": "u", "aggregatedScore": 1},
		{"title": "A", "url": "u", "aggregatedScore": 1}
	]}`

	resp, err := New().Decode([]byte(body))
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.NotEmpty(t, resp.Results[0].ID)
	assert.NotEqual(t, resp.Results[0].ID, resp.Results[1].ID)
}

func TestDecode_PreservesOrder(t *testing.T) {
	body := `{"results": [
		{"title": "low", "url": "u1", "aggregatedScore": 1},
		{"title": "high", "url": "u2", "aggregatedScore": 9}
	]}`

	resp, err := New().Decode([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "low", resp.Results[0].Title)
	assert.Equal(t, "high", resp.Results[1].Title)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "score not numeric", body: `{"results": [{"title": "A", "url": "u", "aggregatedScore": "bad"}]}`},
		{name: "score missing", body: `{"results": [{"title": "A", "url": "u"}]}`},
		{name: "not json", body: `<html>502 Bad Gateway</html>`},
		{name: "truncated json", body: `{"results": [`},
		{name: "root is array", body: `[]`},
		{name: "results not array", body: `{"results": {"title": "A"}}`},
		{name: "result not object", body: `{"results": ["A"]}`},
		{name: "title not string", body: `{"results": [{"title": 1, "url": "u", "aggregatedScore": 1}]}`},
		{name: "url missing", body: `{"results": [{"title": "A", "aggregatedScore": 1}]}`},
		{name: "snippet not string", body: `{"results": [{"title": "A", "url": "u", "aggregatedScore": 1, "snippet": 5}]}`},
		{name: "score details not object", body: `{"results": [{"title": "A", "url": "u", "aggregatedScore": 1, "scoreDetails": "x"}]}`},
		{name: "score details value not string", body: `{"results": [{"title": "A", "url": "u", "aggregatedScore": 1, "scoreDetails": {"k": 2}}]}`},
		{name: "related keywords not array", body: `{"relatedKeywords": "food"}`},
		{name: "related keyword not string", body: `{"relatedKeywords": ["food", 1]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := New().Decode([]byte(tt.body))
			assert.Nil(t, resp)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrDecode)
		})
	}
}
