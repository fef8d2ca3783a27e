// Package store holds the search state machine of one session.
//
// The state only moves forward in sequence: a transition tagged with a
// sequence number older than the current one is ignored.
package store

import (
	"sync"

	"github.com/lk2023060901/nightmarket-search/internal/search/paginator"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

// subscriberBuffer is the channel size handed to each observer
const subscriberBuffer = 16

// Store is the single source of truth for the display layer
type Store struct {
	mu       sync.RWMutex
	state    *types.SearchState
	settled  *types.SearchState // last state that was not Loading
	pageSize int

	subMu       sync.RWMutex
	subscribers map[chan *types.SearchState]struct{}
}

// New creates an idle store
func New(pageSize int) *Store {
	return &Store{
		state:       types.NewSearchState(),
		settled:     types.NewSearchState(),
		pageSize:    pageSize,
		subscribers: make(map[chan *types.SearchState]struct{}),
	}
}

// PageSize returns the configured page size
func (s *Store) PageSize() int {
	return s.pageSize
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() *types.SearchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Begin moves to Loading for a newly dispatched call.
// Results, related keywords and any error are cleared and the page resets to 1.
func (s *Store) Begin(seq uint64, query string) bool {
	return s.mutate(func(st *types.SearchState) bool {
		if seq <= st.Seq {
			return false
		}
		if st.Status != types.StatusLoading {
			s.settled = st.Clone()
		}
		st.Seq = seq
		st.Query = query
		st.Status = types.StatusLoading
		st.Results = []*types.SearchResult{}
		st.RelatedKeywords = []string{}
		st.ErrorMessage = nil
		st.Err = nil
		st.CurrentPage = 1
		return true
	})
}

// Commit moves to Success with the decoded response
func (s *Store) Commit(seq uint64, query string, resp *types.SearchResponse) bool {
	return s.mutate(func(st *types.SearchState) bool {
		if seq < st.Seq {
			return false
		}
		if seq == st.Seq && st.Status != types.StatusLoading {
			return false
		}
		st.Seq = seq
		st.Query = query
		st.Status = types.StatusSuccess
		st.Results = resp.Results
		st.RelatedKeywords = resp.RelatedKeywords
		if st.Results == nil {
			st.Results = []*types.SearchResult{}
		}
		if st.RelatedKeywords == nil {
			st.RelatedKeywords = []string{}
		}
		st.ErrorMessage = nil
		st.Err = nil
		st.CurrentPage = 1
		return true
	})
}

// Fail moves to Failed with the user facing message of err
func (s *Store) Fail(seq uint64, query string, err *types.SearchError) bool {
	return s.mutate(func(st *types.SearchState) bool {
		if seq < st.Seq {
			return false
		}
		if seq == st.Seq && st.Status != types.StatusLoading {
			return false
		}
		msg := err.UserMessage()
		st.Seq = seq
		st.Query = query
		st.Status = types.StatusFailed
		st.Results = []*types.SearchResult{}
		st.RelatedKeywords = []string{}
		st.ErrorMessage = &msg
		st.Err = err
		st.CurrentPage = 1
		return true
	})
}

// Abort returns a Loading state to the last settled state. The sequence
// number is kept, so the aborted call can no longer commit or fail.
func (s *Store) Abort() bool {
	return s.mutate(func(st *types.SearchState) bool {
		if st.Status != types.StatusLoading {
			return false
		}
		seq := st.Seq
		*st = *s.settled.Clone()
		st.Seq = seq
		return true
	})
}

// PageCount returns the number of pages of the current results
func (s *Store) PageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginator.PageCount(len(s.state.Results), s.pageSize)
}

// VisiblePage returns the results on the current page
func (s *Store) VisiblePage() []*types.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page := paginator.VisibleSlice(s.state.Results, s.pageSize, s.state.CurrentPage)
	out := make([]*types.SearchResult, len(page))
	for i, r := range page {
		out[i] = r.Clone()
	}
	return out
}

// GoToPage sets the current page, clamped to the valid range
func (s *Store) GoToPage(page int) int {
	var current int
	s.mutate(func(st *types.SearchState) bool {
		clamped := paginator.ClampPage(page, paginator.PageCount(len(st.Results), s.pageSize))
		current = clamped
		if clamped == st.CurrentPage {
			return false
		}
		st.CurrentPage = clamped
		return true
	})
	return current
}

// NextPage advances one page if there is one
func (s *Store) NextPage() int {
	return s.GoToPage(s.currentPage() + 1)
}

// PreviousPage goes back one page if there is one
func (s *Store) PreviousPage() int {
	return s.GoToPage(s.currentPage() - 1)
}

func (s *Store) currentPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentPage
}

// mutate applies fn under the lock and notifies observers when it reports a change
func (s *Store) mutate(fn func(st *types.SearchState) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := fn(s.state)
	if changed {
		s.broadcast(s.state)
	}
	return changed
}

// Subscribe returns a channel receiving a snapshot after every change.
// Slow observers miss snapshots instead of blocking the store.
func (s *Store) Subscribe() <-chan *types.SearchState {
	ch := make(chan *types.SearchState, subscriberBuffer)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	return ch
}

// Unsubscribe removes and closes an observer channel
func (s *Store) Unsubscribe(ch <-chan *types.SearchState) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for sub := range s.subscribers {
		if sub == ch {
			delete(s.subscribers, sub)
			close(sub)
			return
		}
	}
}

// Close closes every observer channel
func (s *Store) Close() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for sub := range s.subscribers {
		close(sub)
	}
	s.subscribers = make(map[chan *types.SearchState]struct{})
}

// broadcast must be called with s.mu held
func (s *Store) broadcast(state *types.SearchState) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for sub := range s.subscribers {
		select {
		case sub <- state.Clone():
		default:
		}
	}
}
