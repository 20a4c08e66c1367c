// CLAUDE:SUMMARY Controller: dispatches inspection commands over a dom host, owns session, scan, flag and sinks.
// Package inspector provides live CSS inspection and page color extraction
// over a dom host. A Controller receives commands (start, stop, scan, clear
// storage), drives the inspection session and color scan, and emits events
// to sinks.
//
// The Controller is transport-neutral: cmd/inspector wires it to a CLI, an
// HTTP control API (Handler) and MCP tools (RegisterMCP).
package inspector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hazyhaar/csspeek/detectstate"
	"github.com/hazyhaar/csspeek/inspector/dom"
	"github.com/hazyhaar/csspeek/inspector/event"
	"github.com/hazyhaar/csspeek/inspector/internal/scan"
	"github.com/hazyhaar/csspeek/inspector/internal/session"
	"github.com/hazyhaar/csspeek/inspector/internal/sink"
)

// ErrNoPage is returned for inspection commands on a host that delivers no
// input, such as a fetched document.
var ErrNoPage = errors.New("inspector: host has no interactive page")

// StorageClearer is implemented by hosts that can clear site storage.
type StorageClearer interface {
	ClearStorage(ctx context.Context, targets []event.StorageTarget) []event.StorageResult
}

// State is a snapshot of the controller.
type State struct {
	Detecting  bool          `json:"detecting"` // shared flag
	Active     bool          `json:"active"`    // this controller's session
	Live       bool          `json:"live"`      // host accepts inspection
	LastSample *event.Sample `json:"last_sample,omitempty"`
}

// Controller dispatches commands against one host.
type Controller struct {
	doc    dom.Document
	sess   *session.Session // nil when doc is not a dom.Page
	flag   *detectstate.Flag
	sinks  []Sink
	sink   sink.Sink
	emit   func(event.Event)
	logger *slog.Logger
	timing SessionConfig
	clock  session.Clock
	mu     sync.Mutex
	closed bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithSinks sets the event outputs. Events go to every sink; without sinks
// they are dropped.
func WithSinks(sinks ...Sink) Option {
	return func(c *Controller) { c.sinks = append(c.sinks, sinks...) }
}

// WithFlag shares a detecting flag with other controllers or processes.
func WithFlag(f *detectstate.Flag) Option {
	return func(c *Controller) { c.flag = f }
}

// WithSessionConfig sets inspection timing. Zero fields keep their defaults.
func WithSessionConfig(cfg SessionConfig) Option {
	return func(c *Controller) { c.timing = cfg }
}

func withClock(clk session.Clock) Option {
	return func(c *Controller) { c.clock = clk }
}

// New creates a Controller over doc. When doc is a dom.Page, inspection
// commands are available. The detecting flag is reset to false.
func New(doc dom.Document, opts ...Option) *Controller {
	c := &Controller{doc: doc, logger: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.sink = sink.NewRouter(c.logger, c.sinks...)
	if c.flag == nil {
		c.flag = detectstate.New(nil, detectstate.WithLogger(c.logger))
	}
	c.flag.Set(false)
	c.emit = sink.Emitter(context.Background(), c.sink, c.logger)

	if page, ok := doc.(dom.Page); ok {
		c.sess = session.New(page, session.Config{
			Throttle:      c.timing.Throttle,
			FreezeDelay:   c.timing.FreezeDelay,
			OverlayOffset: c.timing.OverlayOffset,
			Emit:          c.emit,
			Flag:          c.flag,
			Clock:         c.clock,
			Logger:        c.logger,
		})
	}
	return c
}

// Handle executes one command. Start and stop return a nil event; the
// session reports through the sinks. Scan and clear-storage return the
// event they emitted.
func (c *Controller) Handle(ctx context.Context, cmd event.Command) (event.Event, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("inspector: %s: controller closed", cmd.Name())
	}

	switch cmd := cmd.(type) {
	case event.StartInspection:
		if c.sess == nil {
			return nil, ErrNoPage
		}
		c.sess.Start()
		return nil, nil

	case event.StopInspection:
		if c.sess == nil {
			return nil, ErrNoPage
		}
		c.sess.Stop(session.ReasonEnd)
		return nil, nil

	case event.RunColorScan:
		res := scan.Run(c.doc, c.logger)
		c.logger.Info("inspector: color scan",
			"colors", res.Total, "translucent", res.Translucent, "elements", res.Elements)
		c.emit(res)
		return res, nil

	case event.ClearStorage:
		ev := event.StorageCleared{Results: c.clearStorage(ctx, cmd.Targets)}
		c.emit(ev)
		return ev, nil
	}
	return nil, fmt.Errorf("%w: command %T", event.ErrUnknownType, cmd)
}

func (c *Controller) clearStorage(ctx context.Context, targets []event.StorageTarget) []event.StorageResult {
	if len(targets) == 0 {
		targets = event.AllStorageTargets
	}
	if sc, ok := c.doc.(StorageClearer); ok {
		return sc.ClearStorage(ctx, targets)
	}
	out := make([]event.StorageResult, len(targets))
	for i, t := range targets {
		out[i] = event.StorageResult{Target: t, Error: "host cannot clear storage"}
	}
	return out
}

// State returns the current controller state.
func (c *Controller) State() State {
	st := State{Detecting: c.flag.Get(), Live: c.sess != nil}
	if c.sess != nil {
		st.Active = c.sess.Active()
		if sm, ok := c.sess.LastSample(); ok {
			st.LastSample = &sm
		}
	}
	return st
}

// Flag returns the detecting flag the controller mirrors.
func (c *Controller) Flag() *detectstate.Flag { return c.flag }

// Close ends a running session and closes the sinks.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.sess != nil {
		c.sess.Stop(session.ReasonEnd)
	}
	return c.sink.Close()
}
