package sampler

import (
	"strings"
	"testing"

	"github.com/hazyhaar/csspeek/inspector/internal/htmldoc"
)

func load(t *testing.T, src string) *htmldoc.Document {
	t.Helper()
	d, err := htmldoc.LoadString(src)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	return d
}

func TestBackgroundColor_WalksAncestors(t *testing.T) {
	d := load(t, `<html><body>
<div style="background-color: rgb(10,10,10)">
  <div><div><div id="leaf">x</div></div></div>
</div></body></html>`)

	got := New(d).BackgroundColor(d.MustQueryOne("#leaf")).RGB()
	if got != "rgb(10, 10, 10)" {
		t.Errorf("BackgroundColor: got %q, want rgb(10, 10, 10)", got)
	}
}

func TestBackgroundColor_SkipsTranslucentZero(t *testing.T) {
	d := load(t, `<html><body style="background: #eee">
<div style="background-color: rgba(200, 0, 0, 0)"><p id="p" style="background: transparent">x</p></div>
</body></html>`)

	got := New(d).BackgroundColor(d.MustQueryOne("#p")).RGB()
	if got != "rgb(238, 238, 238)" {
		t.Errorf("BackgroundColor: got %q, want body background", got)
	}
}

func TestBackgroundColor_KeepsPartialAlpha(t *testing.T) {
	d := load(t, `<html><body><div id="d" style="background-color: rgba(0, 0, 255, 0.25)"></div></body></html>`)
	got := New(d).BackgroundColor(d.MustQueryOne("#d")).RGB()
	if got != "rgba(0, 0, 255, 0.25)" {
		t.Errorf("BackgroundColor: got %q", got)
	}
}

func TestBackgroundColor_FallsBackToWhite(t *testing.T) {
	d := load(t, `<html style="background: black"><body><p id="p">x</p></body></html>`)
	got := New(d).BackgroundColor(d.MustQueryOne("#p")).RGB()
	if got != "rgb(255, 255, 255)" {
		t.Errorf("BackgroundColor: got %q, want white (root excluded)", got)
	}
}

func TestRelativeFontSize(t *testing.T) {
	d := load(t, `<html style="font-size: 10px"><body>
<p id="a" style="font-size: 25px">a</p>
<p id="b" style="font-size: 1.5em">b</p>
<p id="c">c</p></body></html>`)
	s := New(d)

	tests := map[string]string{"#a": "2.50rem", "#b": "1.50rem", "#c": "1.00rem"}
	for sel, want := range tests {
		if got := s.RelativeFontSize(d.MustQueryOne(sel)); got != want {
			t.Errorf("RelativeFontSize(%s): got %q, want %q", sel, got, want)
		}
	}
}

func TestSample(t *testing.T) {
	d := load(t, `<html><body style="background-color: #102030; color: rgba(255, 255, 255, 0.5)">
<span id="b">x</span></body></html>`)

	sm := New(d).Sample(d.MustQueryOne("#b"))
	if sm.FontSize != "16px" || sm.FontRem != "1.00rem" {
		t.Errorf("font: got %q %q", sm.FontSize, sm.FontRem)
	}
	if sm.TextColor != "rgba(255, 255, 255, 0.5)" || sm.TextHex != "#ffffff80" {
		t.Errorf("text: got %q %q", sm.TextColor, sm.TextHex)
	}
	if sm.BgColor != "rgb(16, 32, 48)" || sm.BgHex != "#102030" {
		t.Errorf("background: got %q %q", sm.BgColor, sm.BgHex)
	}

	info := Info(sm)
	for _, want := range []string{"Font: 16px (1.00rem)", "Weight: 400", "#ffffff80", "rgb(16, 32, 48) | #102030"} {
		if !strings.Contains(info, want) {
			t.Errorf("Info missing %q:\n%s", want, info)
		}
	}
}
