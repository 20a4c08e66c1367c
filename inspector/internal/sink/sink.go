// Package sink defines output backends for inspector events.
package sink

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hazyhaar/csspeek/inspector/event"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("sink: closed")

// Sink is the output interface. Implementations deliver event envelopes to
// different backends (stdout, webhook, in-process callback).
type Sink interface {
	Send(ctx context.Context, env event.Envelope) error
	Close() error
}

// Emitter returns a function that wraps each event and sends it to s.
// Delivery is best-effort: failures are logged and dropped.
func Emitter(ctx context.Context, s Sink, logger *slog.Logger) func(event.Event) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ev event.Event) {
		env, err := event.Wrap(ev)
		if err != nil {
			logger.Warn("sink: wrap failed", "type", ev.Kind(), "error", err)
			return
		}
		if err := s.Send(ctx, env); err != nil {
			logger.Warn("sink: delivery failed", "type", env.Type, "id", env.ID, "error", err)
		}
	}
}
