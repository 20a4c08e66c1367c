// CLAUDE:SUMMARY Process-wide "inspection active" flag with persistence and change observers.
// Package detectstate holds the shared flag telling every surface whether an
// inspection session is running. The flag is written on every session
// transition and may be persisted so that surfaces started later, or in
// another process, resynchronise from it.
package detectstate

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"
)

// Flag is the shared detecting state. It is safe for concurrent use.
type Flag struct {
	store   Store
	logger  *slog.Logger
	timeout time.Duration

	mu        sync.Mutex
	value     bool
	observers map[int]func(bool)
	nextID    int
}

// Option configures a Flag.
type Option func(*Flag)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Flag) { f.logger = l }
}

// WithStoreTimeout bounds each store write. Default: 2s.
func WithStoreTimeout(d time.Duration) Option {
	return func(f *Flag) { f.timeout = d }
}

// New creates a Flag backed by store. A nil store keeps the value in memory.
func New(store Store, opts ...Option) *Flag {
	if store == nil {
		store = NewMemoryStore()
	}
	f := &Flag{
		store:     store,
		logger:    slog.Default(),
		timeout:   2 * time.Second,
		observers: make(map[int]func(bool)),
	}
	for _, o := range opts {
		o(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Get returns the current value.
func (f *Flag) Get() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Set writes the value through to the store and notifies observers when it
// changed. Store failures are logged; the in-memory value is authoritative
// for this process.
func (f *Flag) Set(v bool) {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()
	if err := f.store.Save(ctx, v); err != nil {
		f.logger.Warn("detectstate: save failed", "value", v, "error", err)
	}
	f.apply(v)
}

// Load reads the persisted value into the flag and notifies observers when
// it differs from the in-memory one.
func (f *Flag) Load(ctx context.Context) error {
	v, err := f.store.Load(ctx)
	if err != nil {
		return err
	}
	f.apply(v)
	return nil
}

// OnChange registers fn to be called with the new value after every
// change. The returned function removes it.
func (f *Flag) OnChange(fn func(bool)) (cancel func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.observers[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.observers, id)
		f.mu.Unlock()
	}
}

// Watch follows changes written by other processes until ctx is done. It
// returns immediately when the store cannot be watched.
func (f *Flag) Watch(ctx context.Context, interval time.Duration) error {
	w, ok := f.store.(Watcher)
	if !ok {
		return nil
	}
	return w.Watch(ctx, interval, f.apply)
}

func (f *Flag) apply(v bool) {
	f.mu.Lock()
	if f.value == v {
		f.mu.Unlock()
		return
	}
	f.value = v
	ids := slices.Sorted(maps.Keys(f.observers))
	fns := make([]func(bool), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, f.observers[id])
	}
	f.mu.Unlock()

	f.logger.Debug("detectstate: changed", "detecting", v)
	for _, fn := range fns {
		fn(v)
	}
}
