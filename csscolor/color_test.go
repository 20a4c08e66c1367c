package csscolor

import (
	"errors"
	"testing"
)

func TestParse_EquivalentSyntaxes(t *testing.T) {
	for _, in := range []string{"#ff0000", "red", "rgb(255,0,0)", "RGB(255, 0, 0)", "#f00", "hsl(0, 100%, 50%)", "rgb(100% 0% 0%)"} {
		if got := Parse(in).RGB(); got != "rgb(255, 0, 0)" {
			t.Errorf("Parse(%q).RGB() = %q, want rgb(255, 0, 0)", in, got)
		}
	}
}

func TestParse_Translucent(t *testing.T) {
	v := Parse("rgba(10,20,30,0.5)")
	if got := v.Hex8(); got != "#0a141e80" {
		t.Errorf("Hex8: got %q, want #0a141e80", got)
	}
	if got := v.RGB(); got != "rgba(10, 20, 30, 0.5)" {
		t.Errorf("RGB: got %q", got)
	}
	if !v.HasTransparency() {
		t.Error("HasTransparency: got false")
	}
	if got := v.DisplayHex(); got != "#0a141e80" {
		t.Errorf("DisplayHex: got %q", got)
	}
}

func TestRGB_OpaqueHasThreeComponents(t *testing.T) {
	for _, in := range []string{"white", "#123456", "rgba(1, 2, 3, 1)", "rgb(1 2 3 / 100%)", "hsla(200, 50%, 50%, 1.0)"} {
		v := Parse(in)
		if v.A != 1 {
			t.Fatalf("Parse(%q).A = %v, want 1", in, v.A)
		}
		if got := v.RGB(); got[:4] != "rgb(" {
			t.Errorf("Parse(%q).RGB() = %q, want rgb() form", in, got)
		}
	}
}

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"#0a141e", Value{10, 20, 30, 1}},
		{"#abc", Value{0xaa, 0xbb, 0xcc, 1}},
		{"#0000", Value{}},
		{"transparent", Transparent},
		{"rebeccapurple", Value{102, 51, 153, 1}},
		{"  Navy ", Value{0, 0, 128, 1}},
		{"rgb(300, -4, 12.6)", Value{255, 0, 13, 1}},
		{"rgba(0, 0, 0, 0)", Value{}},
		{"rgb(0 0 0 / 0.25)", Value{0, 0, 0, 0.25}},
		{"rgba(0,0,0,25%)", Value{0, 0, 0, 0.25}},
		{"hsl(120 100% 50%)", Value{0, 255, 0, 1}},
		{"hsl(0.5turn, 100%, 50%)", Value{0, 255, 255, 1}},
		{"hsla(240deg, 100%, 50%, 0.5)", Value{0, 0, 255, 0.5}},
	}
	for _, tt := range tests {
		got, err := ParseStrict(tt.in)
		if err != nil {
			t.Errorf("ParseStrict(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStrict(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParse_FailsClosedToBlack(t *testing.T) {
	for _, in := range []string{"", "notacolor", "#12", "#12345", "#ggg", "rgb(1,2)", "rgb(a,b,c)", "hsl(1,2%)", "rgb(1 2 3 4)", "inherit"} {
		if got := Parse(in); got != Black {
			t.Errorf("Parse(%q) = %+v, want opaque black", in, got)
		}
		if _, err := ParseStrict(in); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseStrict(%q): got %v, want ErrInvalidColor", in, err)
		}
	}
}

func TestRGBA_SnapsAlpha(t *testing.T) {
	if v := RGBA(1, 2, 3, 0.9999); v.A != 1 {
		t.Errorf("0.9999 alpha: got %v, want 1", v.A)
	}
	if v := RGBA(1, 2, 3, 0.001); v.A != 0 {
		t.Errorf("0.001 alpha: got %v, want 0", v.A)
	}
	if v := RGBA(1, 2, 3, 7); v.A != 1 {
		t.Errorf("clamp: got %v, want 1", v.A)
	}
}

func TestRGB_AlphaShortestForm(t *testing.T) {
	if got := Parse("#0a141e80").RGB(); got != "rgba(10, 20, 30, 0.5)" {
		t.Errorf("got %q", got)
	}
	if got := Parse("rgba(0,0,0,0.3)").RGB(); got != "rgba(0, 0, 0, 0.3)" {
		t.Errorf("got %q", got)
	}
}

func TestHex(t *testing.T) {
	v := Value{R: 1, G: 171, B: 255, A: 0.2}
	if got := v.Hex(); got != "#01abff" {
		t.Errorf("Hex: got %q", got)
	}
	if got := v.Hex8(); got != "#01abff33" {
		t.Errorf("Hex8: got %q", got)
	}
	if got := White.DisplayHex(); got != "#ffffff" {
		t.Errorf("DisplayHex: got %q", got)
	}
}
