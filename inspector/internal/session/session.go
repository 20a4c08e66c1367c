// CLAUDE:SUMMARY Pointer-driven inspection state machine: overlay, throttled updates, click-to-freeze with double-click preemption.
// Package session runs one live inspection at a time over a dom.Page.
//
// While active the session samples the element under the pointer on every
// move, keeps the overlay in sync, and emits at most one SampleUpdate per
// throttle interval. A primary click arms a freeze timer; a double click
// inside that window cancels it and ends the session instead. Escape ends
// the session. Every exit path removes the overlay and emits exactly one
// SampleFreeze or SessionEnd.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/csspeek/inspector/dom"
	"github.com/hazyhaar/csspeek/inspector/event"
	"github.com/hazyhaar/csspeek/inspector/internal/sampler"
)

// Reason selects the event emitted when a session stops.
type Reason int

const (
	// ReasonEnd emits SessionEnd.
	ReasonEnd Reason = iota
	// ReasonFreeze emits SampleFreeze with the last sample, or SessionEnd
	// when nothing was sampled.
	ReasonFreeze
)

func (r Reason) String() string {
	if r == ReasonFreeze {
		return "freeze"
	}
	return "end"
}

// Flag receives the active state on every transition.
type Flag interface {
	Set(active bool)
}

// Config controls session timing and wiring.
type Config struct {
	// Throttle is the minimum interval between two SampleUpdate events.
	// Default: 100ms.
	Throttle time.Duration
	// FreezeDelay is how long a click waits for a double click before
	// freezing. Default: 250ms.
	FreezeDelay time.Duration
	// OverlayOffset is added to both pointer coordinates when moving the
	// overlay. Default: 20.
	OverlayOffset float64

	// Emit receives outbound events. Delivery is best-effort; a nil Emit
	// drops them.
	Emit func(event.Event)
	// Flag, when set, mirrors the active state.
	Flag Flag

	Clock  Clock
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Throttle <= 0 {
		c.Throttle = 100 * time.Millisecond
	}
	if c.FreezeDelay <= 0 {
		c.FreezeDelay = 250 * time.Millisecond
	}
	if c.OverlayOffset == 0 {
		c.OverlayOffset = 20
	}
	if c.Clock == nil {
		c.Clock = RealClock()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Cursors applied to the page while a session runs and after it stops.
const (
	CursorActive = "crosshair"
	CursorIdle   = "default"
)

// Session is the inspection state machine for one page. Input handlers,
// timer callbacks and commands are serialized by mu.
type Session struct {
	cfg     Config
	page    dom.Page
	sampler *sampler.Sampler

	mu          sync.Mutex
	active      bool
	overlay     dom.Overlay
	unsubscribe func()
	last        *event.Sample
	lastSent    time.Time
	sent        bool
	pending     Timer
	gen         uint64 // bumped whenever the pending timer is replaced or voided
	transitions uint64 // bumped on every start and stop

	// flagMu orders flag writes. flagSeen is the transition the flag last
	// reflected; guarded by flagMu.
	flagMu   sync.Mutex
	flagSeen uint64
}

// New creates an idle session over page.
func New(page dom.Page, cfg Config) *Session {
	cfg.defaults()
	return &Session{
		cfg:     cfg,
		page:    page,
		sampler: sampler.New(page),
	}
}

// Active reports whether a session is running.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// LastSample returns the most recent sample of the current or last session.
func (s *Session) LastSample() (event.Sample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return event.Sample{}, false
	}
	return *s.last, true
}

// Start begins a session. It is a no-op while one is active.
func (s *Session) Start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.transitions++
	s.last = nil
	s.sent = false
	s.page.SetCursor(CursorActive)
	s.overlay = s.page.NewOverlay()
	s.unsubscribe = s.page.Subscribe(s.handle)
	s.mu.Unlock()

	s.cfg.Logger.Debug("session: started")
	s.syncFlag()
}

// Stop ends the session for reason. It is a no-op while idle.
func (s *Session) Stop(reason Reason) {
	s.mu.Lock()
	ev := s.stopLocked(reason)
	s.mu.Unlock()
	s.finish(ev, reason)
}

// stopLocked tears the session down and returns the event to emit, or nil
// when the session was already idle.
func (s *Session) stopLocked(reason Reason) event.Event {
	if !s.active {
		return nil
	}
	s.active = false
	s.transitions++
	s.cancelLocked()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	if s.overlay != nil {
		s.overlay.Remove()
		s.overlay = nil
	}
	s.page.SetCursor(CursorIdle)

	if reason == ReasonFreeze && s.last != nil {
		return event.SampleFreeze{Sample: *s.last}
	}
	return event.SessionEnd{}
}

// finish publishes the outcome of a stop outside the lock.
func (s *Session) finish(ev event.Event, reason Reason) {
	if ev == nil {
		return
	}
	s.cfg.Logger.Debug("session: stopped", "reason", reason.String(), "event", ev.Kind())
	s.emit(ev)
	s.syncFlag()
}

func (s *Session) handle(in dom.Input) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}

	var out, stop event.Event
	switch in := in.(type) {
	case dom.PointerMove:
		out = s.moveLocked(in)
	case dom.Click:
		if in.Button == dom.PrimaryButton {
			s.armLocked()
		}
	case dom.DoubleClick:
		if in.Button == dom.PrimaryButton {
			stop = s.stopLocked(ReasonEnd)
		}
	case dom.KeyDown:
		if in.Key == "Escape" {
			stop = s.stopLocked(ReasonEnd)
		}
	}
	s.mu.Unlock()

	if out != nil {
		s.emit(out)
	}
	s.finish(stop, ReasonEnd)
}

// moveLocked samples the element under the pointer and returns an update
// when the throttle allows one.
func (s *Session) moveLocked(in dom.PointerMove) event.Event {
	el := s.page.ElementFromPoint(in.X, in.Y)
	if el == nil {
		return nil
	}
	sm := s.sampler.Sample(el)
	s.last = &sm

	s.overlay.Show(dom.OverlayContent{
		TextColor:       sm.TextColor,
		BackgroundColor: sm.BgColor,
		Info:            sampler.Info(sm),
	})
	s.overlay.MoveTo(in.X+s.cfg.OverlayOffset, in.Y+s.cfg.OverlayOffset)

	now := s.cfg.Clock.Now()
	if s.sent && now.Sub(s.lastSent) < s.cfg.Throttle {
		return nil
	}
	s.sent, s.lastSent = true, now
	return event.SampleUpdate{Sample: sm}
}

// armLocked (re)starts the freeze timer.
func (s *Session) armLocked() {
	s.cancelLocked()
	gen := s.gen
	s.pending = s.cfg.Clock.AfterFunc(s.cfg.FreezeDelay, func() { s.fire(gen) })
}

func (s *Session) cancelLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.gen++
}

// fire runs when the freeze timer expires. A timer that was replaced or
// cancelled after it started firing sees a newer generation and does
// nothing.
func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	if !s.active || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	ev := s.stopLocked(ReasonFreeze)
	s.mu.Unlock()
	s.finish(ev, ReasonFreeze)
}

func (s *Session) emit(ev event.Event) {
	if s.cfg.Emit == nil {
		return
	}
	s.cfg.Emit(ev)
}

// syncFlag writes the current active state to the flag. Writers queue on
// flagMu and each one publishes the state as of when it gets there, so a
// slow write from an older transition can never be the last one to land.
func (s *Session) syncFlag() {
	if s.cfg.Flag == nil {
		return
	}
	s.flagMu.Lock()
	defer s.flagMu.Unlock()

	s.mu.Lock()
	seq, active := s.transitions, s.active
	s.mu.Unlock()
	if seq == s.flagSeen {
		return
	}
	s.cfg.Flag.Set(active)
	s.flagSeen = seq
}
