package idgen

import (
	"strings"
	"testing"
)

func TestUUIDv7(t *testing.T) {
	gen := UUIDv7()
	a, b := gen(), gen()
	if a == b {
		t.Fatal("duplicate ids")
	}
	if _, err := Parse(a); err != nil {
		t.Errorf("Parse(%q): %v", a, err)
	}
	if a[14] != '7' {
		t.Errorf("version nibble: got %q in %q", a[14], a)
	}
	if a > b {
		t.Errorf("not time-sortable: %q > %q", a, b)
	}
}

func TestPrefixedAndSequence(t *testing.T) {
	gen := Prefixed("req_", Sequence("n"))
	if got := gen(); got != "req_n1" {
		t.Errorf("first: got %q", got)
	}
	if got := gen(); got != "req_n2" {
		t.Errorf("second: got %q", got)
	}
	if !strings.HasPrefix(Prefixed("evt_", UUIDv7())(), "evt_") {
		t.Error("prefix missing")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error")
	}
}
