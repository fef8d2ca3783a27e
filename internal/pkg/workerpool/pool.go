package workerpool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// Config configures the worker pool
type Config struct {
	Workers     int  `mapstructure:"workers"`     // max concurrent tasks
	Nonblocking bool `mapstructure:"nonblocking"` // fail fast instead of waiting for a free worker
}

// DefaultConfig returns the default pool configuration
func DefaultConfig() *Config {
	return &Config{
		Workers:     16,
		Nonblocking: false,
	}
}

// Statistics holds task counters and worker occupancy
type Statistics struct {
	Capacity  int   `json:"capacity"`
	Free      int   `json:"free"`
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Panicked  int64 `json:"panicked"`
	Running   int64 `json:"running"`
}

// Pool runs tasks on a bounded set of goroutines backed by ants
type Pool struct {
	pool   *ants.Pool
	config *Config
	logger *logger.Logger

	submitted atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64
	running   atomic.Int64

	closeOnce sync.Once
	closed    atomic.Bool
}

// New creates a worker pool
func New(config *Config, log *logger.Logger) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Workers <= 0 {
		return nil, fmt.Errorf("invalid worker count: %d", config.Workers)
	}
	if log == nil {
		log = logger.Nop()
	}

	p := &Pool{
		config: config,
		logger: log.Named("workerpool"),
	}

	antsPool, err := ants.NewPool(config.Workers,
		ants.WithNonblocking(config.Nonblocking),
		ants.WithPanicHandler(func(v interface{}) {
			p.panicked.Add(1)
			p.running.Add(-1)
			p.logger.Error("worker panic", zap.Any("error", v), zap.Stack("stacktrace"))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}
	p.pool = antsPool

	return p, nil
}

// Submit schedules task on the pool
func (p *Pool) Submit(task func()) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	p.submitted.Add(1)
	err := p.pool.Submit(func() {
		p.running.Add(1)
		task()
		p.running.Add(-1)
		p.completed.Add(1)
	})
	if err != nil {
		p.submitted.Add(-1)
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
		return fmt.Errorf("failed to submit task: %w", err)
	}
	return nil
}

// Stats returns a snapshot of the task counters
func (p *Pool) Stats() Statistics {
	return Statistics{
		Capacity:  p.pool.Cap(),
		Free:      p.pool.Free(),
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Panicked:  p.panicked.Load(),
		Running:   p.running.Load(),
	}
}

// Shutdown releases the pool. Tasks already running keep going.
func (p *Pool) Shutdown() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		p.pool.Release()
	})
}
