package inspector

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hazyhaar/csspeek/inspector/event"
	"github.com/hazyhaar/csspeek/inspector/internal/sink"
)

// Sink is the output interface for inspector events.
type Sink = sink.Sink

// NewStdoutSink creates a stdout JSON-lines sink.
func NewStdoutSink(w io.Writer) Sink {
	return sink.NewStdout(w)
}

// NewWebhookSink creates a webhook POST sink. retries is the number of
// extra attempts after a failure.
func NewWebhookSink(url string, retries int, logger *slog.Logger) Sink {
	return sink.NewWebhook(url, sink.WithWebhookRetries(retries), sink.WithWebhookLogger(logger))
}

// NewCallbackSink creates an in-process sink receiving decoded events.
func NewCallbackSink(fn func(ctx context.Context, ev event.Event) error) Sink {
	return sink.NewCallback(fn)
}

// NewAsyncSink decouples next behind a bounded queue. Events that do not
// fit are dropped.
func NewAsyncSink(next Sink, size int, logger *slog.Logger) Sink {
	return sink.NewAsync(next, size, logger)
}

// SinksFromConfig builds the configured sinks. stdout receives the stdout
// entries.
func SinksFromConfig(cfgs []SinkConfig, stdout io.Writer, logger *slog.Logger) ([]Sink, error) {
	out := make([]Sink, 0, len(cfgs))
	for i, sc := range cfgs {
		var s Sink
		switch sc.Type {
		case "stdout":
			s = NewStdoutSink(stdout)
		case "webhook":
			s = NewWebhookSink(sc.URL, sc.Retries, logger)
		default:
			return nil, fmt.Errorf("inspector: sinks[%d]: unknown type %q", i, sc.Type)
		}
		if sc.Queue > 0 {
			s = NewAsyncSink(s, sc.Queue, logger)
		}
		out = append(out, s)
	}
	return out, nil
}
