// CLAUDE:SUMMARY In-process callback sink delivering decoded events via Go function calls.
package sink

import (
	"context"

	"github.com/hazyhaar/csspeek/inspector/event"
)

// EventFunc is called for each event (in-process).
type EventFunc func(ctx context.Context, ev event.Event) error

// Callback delivers events via Go function calls. Envelopes are decoded
// back to their typed form before the call.
type Callback struct {
	fn EventFunc
}

// NewCallback creates a Callback sink. fn may be nil.
func NewCallback(fn EventFunc) *Callback {
	return &Callback{fn: fn}
}

func (c *Callback) Send(ctx context.Context, env event.Envelope) error {
	if c.fn == nil {
		return nil
	}
	ev, err := env.Decode()
	if err != nil {
		return err
	}
	return c.fn(ctx, ev)
}

func (c *Callback) Close() error { return nil }
