package session

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/nightmarket-search/internal/keyword"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/workerpool"
	"github.com/lk2023060901/nightmarket-search/internal/search/dispatcher"
	"github.com/lk2023060901/nightmarket-search/internal/search/store"
	"github.com/lk2023060901/nightmarket-search/internal/search/transport"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

// Session is one search screen: a dispatcher feeding a state store
type Session struct {
	id        string
	createdAt time.Time

	config     *types.ClientConfig
	dispatcher *dispatcher.Dispatcher
	store      *store.Store
	extractor  *keyword.Extractor
	logger     *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a session. All fetches of the session are bound to its lifetime.
func New(id string, config *types.ClientConfig, tr transport.Transport, pool *workerpool.Pool, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(zap.String("session_id", id))

	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		id:         id,
		createdAt:  time.Now(),
		config:     config,
		dispatcher: dispatcher.New(config, tr, pool, log),
		store:      store.New(config.PageSize),
		extractor:  keyword.NewExtractor(),
		logger:     log.Named("session"),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session was opened
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// PageSize returns the number of results per page
func (s *Session) PageSize() int {
	return s.store.PageSize()
}

// Search dispatches query and moves the state to Loading.
// The returned sequence number identifies the call.
func (s *Session) Search(query string) uint64 {
	seq := s.dispatcher.Search(s.ctx, query, s.settle)

	if q, ok := types.NormalizeQuery(query); ok {
		if s.store.Begin(seq, q) {
			s.logger.Debug("state transition", zap.Uint64("seq", seq), zap.String("status", string(types.StatusLoading)))
		}
	}

	return seq
}

func (s *Session) settle(st *dispatcher.Settlement) {
	if st.Err != nil {
		if s.store.Fail(st.Seq, st.Query, st.Err) {
			s.logger.Debug("state transition",
				zap.Uint64("seq", st.Seq),
				zap.String("status", string(types.StatusFailed)),
				zap.String("kind", string(st.Err.Kind)),
			)
		}
		return
	}

	resp := st.Response
	if len(resp.RelatedKeywords) == 0 && s.config.DeriveRelatedKeywords {
		resp.RelatedKeywords = s.deriveRelatedKeywords(st.Query, resp.Results)
	}

	if s.store.Commit(st.Seq, st.Query, resp) {
		s.logger.Debug("state transition",
			zap.Uint64("seq", st.Seq),
			zap.String("status", string(types.StatusSuccess)),
			zap.Int("results", len(resp.Results)),
		)
	}
}

// deriveRelatedKeywords takes the most frequent snippet terms, or the query
// terms when no result carries a snippet
func (s *Session) deriveRelatedKeywords(query string, results []*types.SearchResult) []string {
	snippets := make([]string, 0, len(results))
	for _, r := range results {
		if r.Snippet != "" {
			snippets = append(snippets, r.Snippet)
		}
	}

	text := strings.Join(snippets, " ")
	if text == "" {
		text = query
	}
	return s.extractor.Top(text, s.config.RelatedKeywordLimit)
}

// Cancel drops every call in flight. A Loading state goes back to the last
// settled state.
func (s *Session) Cancel() {
	s.dispatcher.Cancel()
	if s.store.Abort() {
		s.logger.Debug("search cancelled", zap.Uint64("seq", s.dispatcher.Latest()))
	}
}

// State returns a snapshot of the current state
func (s *Session) State() *types.SearchState {
	return s.store.Snapshot()
}

// View returns a consistent snapshot for display
func (s *Session) View() *View {
	return NewView(s.store.Snapshot(), s.store.PageSize())
}

// GoToPage moves to page, clamped to the available pages
func (s *Session) GoToPage(page int) int {
	return s.store.GoToPage(page)
}

// NextPage moves forward one page
func (s *Session) NextPage() int {
	return s.store.NextPage()
}

// PreviousPage moves back one page
func (s *Session) PreviousPage() int {
	return s.store.PreviousPage()
}

// PageCount returns the number of result pages
func (s *Session) PageCount() int {
	return s.store.PageCount()
}

// VisiblePage returns the results on the current page
func (s *Session) VisiblePage() []*types.SearchResult {
	return s.store.VisiblePage()
}

// Subscribe returns a channel of state snapshots
func (s *Session) Subscribe() <-chan *types.SearchState {
	return s.store.Subscribe()
}

// Unsubscribe stops delivery to ch
func (s *Session) Unsubscribe(ch <-chan *types.SearchState) {
	s.store.Unsubscribe(ch)
}

// Close cancels in-flight calls and releases observers
func (s *Session) Close() {
	s.dispatcher.Cancel()
	s.cancel()
	s.store.Close()
	s.logger.Debug("session closed")
}
