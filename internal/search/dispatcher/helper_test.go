package dispatcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/lk2023060901/nightmarket-search/internal/search/transport"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

func newTestServer(inspect func(r *http.Request)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inspect(r)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[],"relatedKeywords":[]}`))
	}))
}

type slowReply struct {
	delay time.Duration
	body  string
}

// slowTransport always answers 200 after the reply delay, even when the
// caller's context is cancelled in the meantime
type slowTransport struct {
	replies   map[string]slowReply
	completed atomic.Int32
}

func (t *slowTransport) Name() types.TransportName {
	return "slow"
}

func (t *slowTransport) Fetch(_ context.Context, rawURL string) (*transport.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	reply := t.replies[u.Query().Get("query")]
	time.Sleep(reply.delay)
	t.completed.Add(1)

	return &transport.Response{StatusCode: http.StatusOK, Body: []byte(reply.body)}, nil
}
