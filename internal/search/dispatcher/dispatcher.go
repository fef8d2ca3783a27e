// Package dispatcher turns queries into backend round trips and hands back
// only the settlement of the most recent call.
package dispatcher

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/workerpool"
	"github.com/lk2023060901/nightmarket-search/internal/search/decoder"
	"github.com/lk2023060901/nightmarket-search/internal/search/transport"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

// Settlement is the terminal outcome of one search call.
// Exactly one of Response and Err is set.
type Settlement struct {
	Seq      uint64
	Query    string
	Response *types.SearchResponse
	Err      *types.SearchError
	Duration time.Duration
}

// SettleFunc receives the settlement of a call that is still the latest.
// It runs while the dispatcher holds its lock and must not call back into the Dispatcher.
type SettleFunc func(*Settlement)

// Dispatcher assigns increasing sequence numbers to search calls and drops
// every settlement that is no longer the latest.
type Dispatcher struct {
	config    *types.ClientConfig
	transport transport.Transport
	decoder   *decoder.Decoder
	pool      *workerpool.Pool
	logger    *logger.Logger

	mu       sync.Mutex
	latest   uint64
	voidedTo uint64 // calls with seq <= voidedTo never settle
	cancel   context.CancelFunc
}

// New creates a dispatcher
func New(config *types.ClientConfig, tr transport.Transport, pool *workerpool.Pool, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		config:    config,
		transport: tr,
		decoder:   decoder.New(),
		pool:      pool,
		logger:    log.Named("dispatcher"),
	}
}

// Latest returns the sequence number of the most recent call
func (d *Dispatcher) Latest() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest
}

// Search dispatches raw and returns the sequence number assigned to it.
//
// An empty query settles synchronously with an invalid query error and makes
// no network call. It still supersedes any call in flight.
func (d *Dispatcher) Search(ctx context.Context, raw string, onSettled SettleFunc) uint64 {
	query, ok := types.NormalizeQuery(raw)

	d.mu.Lock()
	d.latest++
	seq := d.latest
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}

	if !ok {
		d.logger.Debug("rejected empty query", zap.Uint64("seq", seq))
		onSettled(&Settlement{Seq: seq, Query: query, Err: types.NewInvalidQueryError()})
		d.mu.Unlock()
		return seq
	}

	callCtx, cancel := d.callContext(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	d.logger.Debug("dispatching search",
		zap.Uint64("seq", seq),
		zap.String("query", query),
		zap.String("transport", string(d.transport.Name())),
	)

	err := d.pool.Submit(func() {
		defer cancel()
		d.settle(d.run(callCtx, seq, query), onSettled)
	})
	if err != nil {
		cancel()
		d.logger.Error("failed to schedule search", zap.Uint64("seq", seq), zap.Error(err))
		d.settle(&Settlement{Seq: seq, Query: query, Err: types.NewTransportError(err)}, onSettled)
	}

	return seq
}

// Cancel voids every outstanding call. Their settlements are dropped.
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.voidedTo = d.latest
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Dispatcher) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if d.config.Timeout > 0 {
		return context.WithTimeout(parent, d.config.Timeout)
	}
	return context.WithCancel(parent)
}

// run performs the round trip and classifies the outcome
func (d *Dispatcher) run(ctx context.Context, seq uint64, query string) *Settlement {
	start := time.Now()
	s := &Settlement{Seq: seq, Query: query}

	resp, err := d.transport.Fetch(ctx, types.BuildURL(d.config, query))
	switch {
	case err != nil:
		s.Err = types.NewTransportError(err)
	case !resp.OK():
		s.Err = types.NewServerError(resp.StatusCode)
	default:
		decoded, err := d.decoder.Decode(resp.Body)
		if err != nil {
			s.Err = types.AsSearchError(err)
		} else {
			s.Response = decoded
		}
	}

	s.Duration = time.Since(start)
	return s
}

// settle hands s to onSettled if it is still the latest call
func (d *Dispatcher) settle(s *Settlement, onSettled SettleFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s.Seq != d.latest || s.Seq <= d.voidedTo {
		d.logger.Debug("dropping stale settlement",
			zap.Uint64("seq", s.Seq),
			zap.Uint64("latest", d.latest),
			zap.String("query", s.Query),
		)
		return
	}

	if s.Err != nil {
		d.logger.Info("search failed",
			zap.Uint64("seq", s.Seq),
			zap.String("query", s.Query),
			zap.String("kind", string(s.Err.Kind)),
			zap.Duration("duration", s.Duration),
			zap.Error(s.Err),
		)
	} else {
		d.logger.Info("search settled",
			zap.Uint64("seq", s.Seq),
			zap.String("query", s.Query),
			zap.Int("results", len(s.Response.Results)),
			zap.Duration("duration", s.Duration),
		)
	}

	onSettled(s)
}
