package detectstate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hazyhaar/csspeek/dbopen"
)

func TestFlag_SetGetNotify(t *testing.T) {
	f := New(nil)
	var got []bool
	cancel := f.OnChange(func(v bool) { got = append(got, v) })

	f.Set(true)
	f.Set(true)
	f.Set(false)
	cancel()
	f.Set(true)

	if !f.Get() {
		t.Error("Get: got false after Set(true)")
	}
	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("notifications: got %v, want [true false]", got)
	}
}

type brokenStore struct{}

func (brokenStore) Load(context.Context) (bool, error) { return false, errors.New("down") }
func (brokenStore) Save(context.Context, bool) error   { return errors.New("down") }

func TestFlag_StoreFailureKeepsMemoryValue(t *testing.T) {
	f := New(brokenStore{})
	f.Set(true)
	if !f.Get() {
		t.Error("in-memory value lost on store failure")
	}
	if err := f.Load(context.Background()); err == nil {
		t.Error("Load: expected error")
	}
	if err := f.Watch(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Watch on unwatchable store: %v", err)
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	s := NewSQLiteStore(db, nil)
	ctx := context.Background()

	v, err := s.Load(ctx)
	if err != nil || v {
		t.Fatalf("empty Load: %v, %v", v, err)
	}
	if err := s.Save(ctx, true); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Load(ctx); !v {
		t.Error("Load after Save(true): got false")
	}
	if err := s.Save(ctx, false); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Load(ctx); v {
		t.Error("Load after Save(false): got true")
	}
}

func TestFlag_LoadResynchronises(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	store := NewSQLiteStore(db, nil)
	New(store).Set(true)

	f := New(store)
	if f.Get() {
		t.Fatal("fresh flag should start false")
	}
	if err := f.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !f.Get() {
		t.Error("Load did not pick up persisted value")
	}
}

func TestFlag_WatchAcrossConnections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	a, err := OpenSQLite(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := OpenSQLite(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	writer := New(a)
	reader := New(b)
	changed := make(chan bool, 4)
	reader.OnChange(func(v bool) { changed <- v })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- reader.Watch(ctx, 10*time.Millisecond) }()

	// Let the watcher seed its version before writing.
	time.Sleep(50 * time.Millisecond)
	writer.Set(true)

	select {
	case v := <-changed:
		if !v {
			t.Errorf("observed %v, want true", v)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not observe the write")
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch: %v", err)
	}
}
