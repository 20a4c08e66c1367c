package event

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestWrapDecode_SampleFreeze(t *testing.T) {
	in := SampleFreeze{Sample{FontSize: "16px", FontRem: "1.00rem", FontWeight: "700",
		TextColor: "rgb(0, 0, 0)", TextHex: "#000000", BgColor: "rgb(255, 255, 255)", BgHex: "#ffffff"}}

	env, err := Wrap(in)
	if err != nil {
		t.Fatal(err)
	}
	if env.Type != KindSampleFreeze {
		t.Errorf("Type: got %q", env.Type)
	}
	if len(env.ID) != 36 {
		t.Errorf("ID: got %q, want a UUID", env.ID)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	var back Envelope
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	got, err := back.Decode()
	if err != nil {
		t.Fatal(err)
	}
	freeze, ok := got.(SampleFreeze)
	if !ok {
		t.Fatalf("Decode: got %T, want SampleFreeze", got)
	}
	if freeze != in {
		t.Errorf("Decode: got %+v, want %+v", freeze, in)
	}
}

func TestEnvelope_FlatSampleFields(t *testing.T) {
	env, err := Wrap(SampleUpdate{Sample{FontSize: "12px"}})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(env.Data, &m); err != nil {
		t.Fatal(err)
	}
	if m["font_size"] != "12px" {
		t.Errorf("font_size: got %v (payload %s)", m["font_size"], env.Data)
	}
}

func TestDecode_SessionEnd(t *testing.T) {
	env, err := Wrap(SessionEnd{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := env.Decode()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(SessionEnd); !ok {
		t.Errorf("got %T", got)
	}
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := Envelope{Type: "inspect-update"}.Decode()
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("got %v, want ErrUnknownType", err)
	}
}

func TestParseCommand(t *testing.T) {
	for _, c := range []Command{StartInspection{}, StopInspection{}, RunColorScan{}} {
		got, err := ParseCommand(c.Name())
		if err != nil {
			t.Fatalf("ParseCommand(%q): %v", c.Name(), err)
		}
		if got != c {
			t.Errorf("ParseCommand(%q) = %#v", c.Name(), got)
		}
	}
	cs, err := ParseCommand("clear-storage")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(cs.(ClearStorage).Targets); n != 3 {
		t.Errorf("clear-storage targets: got %d, want 3", n)
	}
	if _, err := ParseCommand("toggle-css-detect"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("unknown command: got %v", err)
	}
}

func TestParseStorageTargets(t *testing.T) {
	all, err := ParseStorageTargets(nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("empty: got %v, %v", all, err)
	}
	got, err := ParseStorageTargets([]string{"local", "cookies"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != StorageLocal || got[1] != StorageCookies {
		t.Errorf("got %v", got)
	}
	if _, err := ParseStorageTargets([]string{"indexeddb"}); !errors.Is(err, ErrUnknownType) {
		t.Errorf("unknown target: got %v", err)
	}
}
