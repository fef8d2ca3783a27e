package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lk2023060901/nightmarket-search/internal/pkg/errors"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/sse"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/workerpool"
	"github.com/lk2023060901/nightmarket-search/internal/search/session"
	"github.com/lk2023060901/nightmarket-search/internal/search/transport"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type viewData struct {
	Seq             uint64                `json:"seq"`
	Query           string                `json:"query"`
	Status          types.Status          `json:"status"`
	Results         []*types.SearchResult `json:"results"`
	RelatedKeywords []string              `json:"relatedKeywords"`
	ErrorMessage    *string               `json:"errorMessage"`
	CurrentPage     int                   `json:"currentPage"`
	PageCount       int                   `json:"pageCount"`
	VisiblePage     []*types.SearchResult `json:"visiblePage"`
	HasNext         bool                  `json:"hasNext"`
}

type testEnv struct {
	router   *gin.Engine
	mock     *transport.MockTransport
	registry *session.Registry
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := types.DefaultClientConfig()
	cfg.Transport = types.TransportMock

	pool, err := workerpool.New(&workerpool.Config{Workers: 4}, nil)
	require.NoError(t, err)
	t.Cleanup(pool.Shutdown)

	mock := transport.NewMockTransport(cfg)
	registry := session.NewRegistry(cfg, mock, pool, nil, 0)
	t.Cleanup(registry.Close)

	svc := NewSearchService(registry, sse.NewHub(), logger.Nop())
	svc.heartbeat = 0

	router := gin.New()
	svc.RegisterRoutes(router.Group("/api/v1"))

	return &testEnv{router: router, mock: mock, registry: registry}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()
	code, env := e.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func decodeView(t *testing.T, raw json.RawMessage) viewData {
	t.Helper()
	var v viewData
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestSearchService_SearchAndWait(t *testing.T) {
	env := setup(t)
	env.mock.Set("night market", &transport.MockReply{Body: `{
		"results": [
			{"title": "Shilin", "url": "https://a.example", "aggregatedScore": 7.5},
			{"title": "Raohe", "url": "https://b.example", "aggregatedScore": 3.2}
		],
		"relatedKeywords": ["food", "night"]
	}`})
	id := env.createSession(t)

	code, resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/search", SearchRequest{Query: "night market", Wait: true})
	require.Equal(t, http.StatusOK, code)

	var sr struct {
		Seq  uint64          `json:"seq"`
		View json.RawMessage `json:"view"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &sr))
	view := decodeView(t, sr.View)

	assert.Equal(t, uint64(1), sr.Seq)
	assert.Equal(t, types.StatusSuccess, view.Status)
	require.Len(t, view.Results, 2)
	assert.Equal(t, 7.5, view.Results[0].AggregatedScore)
	assert.Equal(t, []string{"food", "night"}, view.RelatedKeywords)
	assert.Equal(t, 1, view.CurrentPage)
	assert.Equal(t, 1, view.PageCount)
	assert.Len(t, view.VisiblePage, 2)

	code, resp = env.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	var sess struct {
		ID   string          `json:"id"`
		View json.RawMessage `json:"view"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &sess))
	assert.Equal(t, id, sess.ID)
	assert.Equal(t, types.StatusSuccess, decodeView(t, sess.View).Status)
}

func TestSearchService_EmptyQuery(t *testing.T) {
	env := setup(t)
	id := env.createSession(t)

	code, resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/search", SearchRequest{Query: "  "})
	require.Equal(t, http.StatusOK, code)

	var sr struct {
		View  json.RawMessage `json:"view"`
		Error *SearchFailure  `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &sr))
	view := decodeView(t, sr.View)

	assert.Equal(t, types.StatusFailed, view.Status)
	require.NotNil(t, view.ErrorMessage)
	assert.Equal(t, "Please enter a search query", *view.ErrorMessage)
	require.NotNil(t, sr.Error)
	assert.Equal(t, apperrors.ErrSearchInvalidQuery, sr.Error.Code)
	assert.Equal(t, "Please enter a search query", sr.Error.Message)
	assert.Equal(t, 0, env.mock.Calls())
}

func TestSearchService_Pagination(t *testing.T) {
	env := setup(t)
	items := make([]string, 25)
	for i := range items {
		items[i] = `{"title":"R","url":"https://r.example","aggregatedScore":1}`
	}
	env.mock.SetFallback(&transport.MockReply{Body: `{"results":[` + strings.Join(items, ",") + `]}`})
	id := env.createSession(t)

	env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/search", SearchRequest{Query: "many", Wait: true})

	code, resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/page", PageRequest{Page: 3})
	require.Equal(t, http.StatusOK, code)
	view := decodeView(t, resp.Data)
	assert.Equal(t, 3, view.CurrentPage)
	assert.Equal(t, 3, view.PageCount)
	assert.Len(t, view.VisiblePage, 5)
	assert.False(t, view.HasNext)

	_, resp = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/page/next", nil)
	assert.Equal(t, 3, decodeView(t, resp.Data).CurrentPage)

	_, resp = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/page/prev", nil)
	assert.Equal(t, 2, decodeView(t, resp.Data).CurrentPage)

	_, resp = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/page", PageRequest{Page: 99})
	assert.Equal(t, 3, decodeView(t, resp.Data).CurrentPage)

	code, _ = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/page", map[string]int{})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSearchService_SessionNotFound(t *testing.T) {
	env := setup(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/sessions/missing"},
		{http.MethodDelete, "/api/v1/sessions/missing"},
		{http.MethodPost, "/api/v1/sessions/missing/page/next"},
	} {
		code, resp := env.do(t, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, code, tc.path)
		assert.Equal(t, apperrors.ErrSessionNotFound, resp.Code, tc.path)
	}
}

func TestSearchService_DeleteSession(t *testing.T) {
	env := setup(t)
	id := env.createSession(t)

	code, _ := env.do(t, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, env.registry.Len())

	code, _ = env.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSearchService_ExtractKeywords(t *testing.T) {
	env := setup(t)

	code, resp := env.do(t, http.MethodPost, "/api/v1/keywords", ExtractKeywordsRequest{Text: "night market night food"})
	require.Equal(t, http.StatusOK, code)

	var result struct {
		Keywords []struct {
			Term      string `json:"term"`
			Frequency int    `json:"frequency"`
		} `json:"keywords"`
		TotalKeywords int `json:"total_keywords"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 3, result.TotalKeywords)
	require.Len(t, result.Keywords, 3)
	assert.Equal(t, "night", result.Keywords[0].Term)
	assert.Equal(t, 2, result.Keywords[0].Frequency)
}

func TestSearchService_Events(t *testing.T) {
	env := setup(t)
	env.mock.SetFallback(&transport.MockReply{
		Body:  `{"results":[{"title":"A","url":"https://a","aggregatedScore":1}]}`,
		Delay: 20 * time.Millisecond,
	})
	server := httptest.NewServer(env.router)
	defer server.Close()

	id := env.createSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/sessions/"+id+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan string, 32)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "event: ") {
				events <- strings.TrimPrefix(line, "event: ")
			}
		}
		close(events)
	}()

	next := func() string {
		select {
		case ev, ok := <-events:
			if !ok {
				return ""
			}
			return ev
		case <-ctx.Done():
			t.Fatal("timed out waiting for event")
			return ""
		}
	}

	assert.Equal(t, "connected", next())
	assert.Equal(t, EventState, next()) // initial snapshot

	code, _ := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/search", SearchRequest{Query: "a"})
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, EventState, next()) // loading
	assert.Equal(t, EventState, next()) // success

	code, _ = env.do(t, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, EventClosed, next())
	assert.Equal(t, "", next())
}
