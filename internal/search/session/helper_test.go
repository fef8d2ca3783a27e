package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lk2023060901/nightmarket-search/internal/search/transport"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

func manyResults(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"title":"R%d","url":"https://example.com/%d","aggregatedScore":%d}`, i, i, n-i)
	}
	return `{"results":[` + strings.Join(items, ",") + `]}`
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
