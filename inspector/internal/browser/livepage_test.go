package browser

import (
	"context"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/csspeek/inspector/dom"
)

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		payload string
		want    dom.Input
	}{
		{`{"type":"move","x":12.5,"y":40}`, dom.PointerMove{X: 12.5, Y: 40}},
		{`{"type":"click","button":0}`, dom.Click{Button: 0}},
		{`{"type":"dblclick","button":2}`, dom.DoubleClick{Button: 2}},
		{`{"type":"key","key":"Escape"}`, dom.KeyDown{Key: "Escape"}},
	}
	for _, tt := range tests {
		got, err := decodeInput(tt.payload)
		if err != nil {
			t.Fatalf("decodeInput(%s): %v", tt.payload, err)
		}
		if got != tt.want {
			t.Errorf("decodeInput(%s) = %#v, want %#v", tt.payload, got, tt.want)
		}
	}

	for _, bad := range []string{`{"type":"wheel"}`, `not json`} {
		if _, err := decodeInput(bad); err == nil {
			t.Errorf("decodeInput(%s): expected error", bad)
		}
	}
}

func TestBlockSet(t *testing.T) {
	set, rejected := blockSet([]string{"Images", "fonts", "stylesheets", "bogus"})
	if !set[proto.NetworkResourceTypeImage] || !set[proto.NetworkResourceTypeFont] {
		t.Errorf("set: %v", set)
	}
	if set[proto.NetworkResourceTypeStylesheet] {
		t.Error("stylesheets must never be blocked")
	}
	if len(rejected) != 2 {
		t.Errorf("rejected: %v", rejected)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeHeadless {
		t.Errorf("ParseMode(\"\") = %v, %v", m, err)
	}
	if m, err := ParseMode("headful"); err != nil || m != ModeHeadful {
		t.Errorf("ParseMode(headful) = %v, %v", m, err)
	}
	if _, err := ParseMode("kiosk"); err == nil {
		t.Error("ParseMode(kiosk): expected error")
	}
}

func TestInbox_CoalescesMoves(t *testing.T) {
	b := newInbox()
	b.push(dom.PointerMove{X: 1, Y: 1})
	b.push(dom.PointerMove{X: 2, Y: 2})
	b.push(dom.Click{Button: 0})
	b.push(dom.PointerMove{X: 3, Y: 3})
	b.push(dom.PointerMove{X: 4, Y: 4})
	b.push(dom.KeyDown{Key: "Escape"})

	got := b.drain()
	want := []dom.Input{
		dom.PointerMove{X: 2, Y: 2},
		dom.Click{Button: 0},
		dom.PointerMove{X: 4, Y: 4},
		dom.KeyDown{Key: "Escape"},
	}
	if len(got) != len(want) {
		t.Fatalf("drain = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("drain[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
	if rest := b.drain(); len(rest) != 0 {
		t.Errorf("second drain = %v", rest)
	}
}

func TestInbox_RunDispatchesLatestMove(t *testing.T) {
	b := newInbox()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan dom.Input, 16)
	gate := make(chan struct{})
	go b.run(ctx, func(in dom.Input) {
		if _, ok := in.(dom.Click); ok {
			<-gate
		}
		got <- in
	})

	// The click is held in dispatch while moves pile up behind it.
	b.push(dom.Click{Button: 0})
	for i := 1; i <= 50; i++ {
		b.push(dom.PointerMove{X: float64(i), Y: float64(i)})
	}
	close(gate)
	if in := <-got; in != (dom.Click{Button: 0}) {
		t.Fatalf("first dispatch = %#v", in)
	}

	select {
	case in := <-got:
		if in != (dom.PointerMove{X: 50, Y: 50}) {
			t.Errorf("after backlog got %#v, want only the latest move", in)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("move never dispatched")
	}
	select {
	case in := <-got:
		t.Errorf("unexpected extra dispatch %#v", in)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLivePage_IdleTracksWalksAndSubscribers(t *testing.T) {
	lp := &LivePage{subs: make(map[int]func(dom.Input))}
	if !lp.idleLocked() {
		t.Fatal("fresh page should be idle")
	}
	lp.walks = 1
	if lp.idleLocked() {
		t.Error("walk in flight: registry must be kept")
	}
	lp.walks = 0
	lp.subs[0] = func(dom.Input) {}
	if lp.idleLocked() {
		t.Error("subscriber present: registry must be kept")
	}
	delete(lp.subs, 0)
	if !lp.idleLocked() {
		t.Error("no walks or subscribers: registry can be released")
	}
}
