package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/workerpool"
	"github.com/lk2023060901/nightmarket-search/internal/search/transport"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// Registry owns the live sessions of a process
type Registry struct {
	config      *types.ClientConfig
	transport   transport.Transport
	pool        *workerpool.Pool
	logger      *logger.Logger
	maxSessions int

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates a registry. maxSessions <= 0 means unlimited.
func NewRegistry(config *types.ClientConfig, tr transport.Transport, pool *workerpool.Pool, log *logger.Logger, maxSessions int) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		config:      config,
		transport:   tr,
		pool:        pool,
		logger:      log,
		maxSessions: maxSessions,
		sessions:    make(map[string]*Session),
	}
}

// Create opens a new session
func (r *Registry) Create() (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		return nil, ErrTooManySessions
	}

	id := uuid.NewString()
	s := New(id, r.config, r.transport, r.pool, r.logger)
	r.sessions[id] = s

	r.logger.Info("session created", zap.String("session_id", id), zap.Int("sessions", len(r.sessions)))
	return s, nil
}

// Get returns the session with id
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete closes and forgets the session with id
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	s.Close()
	r.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close closes every session
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
