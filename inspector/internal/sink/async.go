// CLAUDE:SUMMARY Bounded non-blocking queue in front of a sink; drops when full so callers never wait on delivery.
package sink

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hazyhaar/csspeek/inspector/event"
)

// Async delivers envelopes to the next sink from a single background
// goroutine. Send never blocks: when the queue is full the envelope is
// dropped and counted.
type Async struct {
	next   Sink
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
	queue  chan event.Envelope
	done   chan struct{}

	dropped atomic.Int64
}

// NewAsync starts the delivery goroutine. size <= 0 means 64.
func NewAsync(next Sink, size int, logger *slog.Logger) *Async {
	if size <= 0 {
		size = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Async{
		next:   next,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		queue:  make(chan event.Envelope, size),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for env := range a.queue {
		if err := a.next.Send(a.ctx, env); err != nil {
			a.logger.Warn("sink: async delivery failed", "type", env.Type, "id", env.ID, "error", err)
		}
	}
}

// Send enqueues env. The context is not used for delivery, which outlives
// the caller.
func (a *Async) Send(_ context.Context, env event.Envelope) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- env:
	default:
		n := a.dropped.Add(1)
		a.logger.Warn("sink: queue full, event dropped", "type", env.Type, "dropped", n)
	}
	return nil
}

// Dropped returns how many envelopes were dropped on a full queue.
func (a *Async) Dropped() int64 { return a.dropped.Load() }

// Close drains the queue, then closes the next sink.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
	a.cancel()
	return a.next.Close()
}
