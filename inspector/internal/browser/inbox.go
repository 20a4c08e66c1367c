package browser

import (
	"context"
	"sync"

	"github.com/hazyhaar/csspeek/inspector/dom"
)

// inbox queues page input for a single dispatcher goroutine. A pointer move
// queued right behind another one replaces it, so a slow sample never
// leaves a backlog of stale positions. Other input keeps its order.
type inbox struct {
	mu    sync.Mutex
	queue []dom.Input
	wake  chan struct{}
}

func newInbox() *inbox {
	return &inbox{wake: make(chan struct{}, 1)}
}

func (b *inbox) push(in dom.Input) {
	b.mu.Lock()
	if _, move := in.(dom.PointerMove); move && len(b.queue) > 0 {
		if _, prev := b.queue[len(b.queue)-1].(dom.PointerMove); prev {
			b.queue[len(b.queue)-1] = in
			b.mu.Unlock()
			return
		}
	}
	b.queue = append(b.queue, in)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *inbox) drain() []dom.Input {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.queue
	b.queue = nil
	return q
}

// run hands queued input to dispatch until ctx is done.
func (b *inbox) run(ctx context.Context, dispatch func(dom.Input)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.wake:
		}
		for _, in := range b.drain() {
			if ctx.Err() != nil {
				return
			}
			dispatch(in)
		}
	}
}
