// CLAUDE:SUMMARY JSON-lines sink: one inspection envelope per line on an io.Writer, stdout by default.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hazyhaar/csspeek/inspector/event"
)

// Stdout serialises envelopes as JSON lines. Writes are serialised so lines
// from concurrent senders never interleave.
type Stdout struct {
	mu    sync.Mutex
	enc   *json.Encoder
	lines int
}

// NewStdout returns a Stdout writing to w, or to os.Stdout when w is nil.
func NewStdout(w io.Writer) *Stdout {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Stdout{enc: enc}
}

func (s *Stdout) Send(_ context.Context, env event.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(env); err != nil {
		return fmt.Errorf("sink: stdout: %s: %w", env.Type, err)
	}
	s.lines++
	return nil
}

// Lines reports how many envelopes were written.
func (s *Stdout) Lines() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}

func (s *Stdout) Close() error { return nil }
