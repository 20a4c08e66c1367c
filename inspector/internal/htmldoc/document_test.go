package htmldoc

import (
	"testing"

	"github.com/hazyhaar/csspeek/inspector/dom"
)

const fixture = `<!doctype html>
<html>
<head>
<style>
html { font-size: 20px; }
body { color: #333; background-color: white; }
.card { background: rgb(10,10,10) url(x.png) no-repeat; color: red; font-weight: bold; }
.big { font-size: 1.5em; }
.rem { font-size: 2rem; font-weight: bolder; }
.edges { border: 1px solid #00ff00; border-left-color: blue; outline: 2px dotted; }
.logical { border-block-start-color: rgba(0, 0, 255, 0.5); }
.shadow { box-shadow: 2px 2px 4px rgba(0,0,0,0.3), 0 0 2px #fff; text-shadow: 1px 1px 2px; }
.bad { color: notacolor; background-color: nope; }
.imp { color: green !important; }
</style>
</head>
<body>
<div class="card" id="card">
  <section><article><p id="deep">deep</p></article></section>
  <p class="big" id="big"><span class="rem" id="rem">x</span></p>
</div>
<div class="edges" id="edges"></div>
<div class="logical" id="logical"></div>
<div class="shadow" id="shadow"></div>
<div class="bad" id="bad"></div>
<div class="imp" id="imp" style="color: blue"></div>
<div id="inline" style="color: rgb(1 2 3 / 50%)"></div>
</body>
</html>`

func load(t *testing.T) *Document {
	t.Helper()
	d, err := LoadString(fixture)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	return d
}

func TestComputedStyle(t *testing.T) {
	d := load(t)

	tests := []struct {
		sel, prop, want string
	}{
		{"html", "font-size", "20px"},
		{"body", "color", "rgb(51, 51, 51)"},
		{"body", "background-color", "rgb(255, 255, 255)"},
		{"#card", "background-color", "rgb(10, 10, 10)"},
		{"#card", "color", "rgb(255, 0, 0)"},
		{"#card", "font-weight", "700"},
		{"#deep", "color", "rgb(255, 0, 0)"},
		{"#deep", "background-color", "rgba(0, 0, 0, 0)"},
		{"#big", "font-size", "30px"},
		{"#rem", "font-size", "40px"},
		{"#rem", "font-weight", "900"},
		{"#edges", "border-top-color", "rgb(0, 255, 0)"},
		{"#edges", "border-left-color", "rgb(0, 0, 255)"},
		{"#edges", "border-color", "rgb(0, 255, 0) rgb(0, 255, 0) rgb(0, 255, 0) rgb(0, 0, 255)"},
		{"#edges", "outline-color", "rgb(51, 51, 51)"},
		{"#logical", "border-top-color", "rgba(0, 0, 255, 0.5)"},
		{"#logical", "border-block-start-color", "rgba(0, 0, 255, 0.5)"},
		{"#logical", "border-inline-end-color", "rgb(51, 51, 51)"},
		{"#shadow", "box-shadow", "rgba(0, 0, 0, 0.3) 2px 2px 4px, rgb(255, 255, 255) 0 0 2px"},
		{"#shadow", "text-shadow", "rgb(51, 51, 51) 1px 1px 2px"},
		{"#card", "box-shadow", "none"},
		{"#bad", "color", "rgb(51, 51, 51)"},
		{"#bad", "background-color", "rgba(0, 0, 0, 0)"},
		{"#imp", "color", "rgb(0, 128, 0)"},
		{"#inline", "color", "rgba(1, 2, 3, 0.5)"},
	}
	for _, tt := range tests {
		el := d.MustQueryOne(tt.sel)
		if got := d.ComputedStyle(el, tt.prop); got != tt.want {
			t.Errorf("%s %s: got %q, want %q", tt.sel, tt.prop, got, tt.want)
		}
	}
}

func TestParentAndRoot(t *testing.T) {
	d := load(t)
	if !d.IsRoot(d.Root()) {
		t.Fatal("IsRoot(Root()) = false")
	}
	if d.Parent(d.Root()) != nil {
		t.Error("Parent(Root()) should be nil")
	}
	deep := d.MustQueryOne("#deep")
	if got := d.Parent(deep); got != d.MustQueryOne("article") {
		t.Errorf("Parent(#deep) = %v", got)
	}
	if d.Parent(nil) != nil || d.ComputedStyle(nil, "color") != "" {
		t.Error("nil node should read as no element")
	}
}

func TestElements_DocumentOrder(t *testing.T) {
	d := load(t)
	var names []string
	for n := range d.Elements() {
		names = append(names, asElement(n).Data)
	}
	if len(names) < 4 || names[0] != "html" || names[1] != "head" {
		t.Fatalf("Elements order: %v", names)
	}
}

func TestElementFromPoint(t *testing.T) {
	d := load(t)
	card := d.MustQueryOne("#card")
	deep := d.MustQueryOne("#deep")
	d.Place(card, Rect{X: 0, Y: 0, W: 200, H: 200})
	d.Place(deep, Rect{X: 10, Y: 10, W: 50, H: 20})

	if got := d.ElementFromPoint(20, 15); got != deep {
		t.Errorf("inner point: got %v, want #deep", got)
	}
	if got := d.ElementFromPoint(150, 150); got != card {
		t.Errorf("outer point: got %v, want #card", got)
	}
	if got := d.ElementFromPoint(500, 500); got != nil {
		t.Errorf("outside: got %v, want nil", got)
	}
}

func TestProbeBackgroundColor(t *testing.T) {
	d := load(t)
	tests := map[string]string{
		"red":                 "rgb(255, 0, 0)",
		"#0a141e80":           "rgba(10, 20, 30, 0.5)",
		"hsl(120, 100%, 25%)": "rgb(0, 128, 0)",
		"transparent":         "rgba(0, 0, 0, 0)",
		"bogus":               "rgba(0, 0, 0, 0)",
		"inherit":             "rgb(255, 255, 255)",
		"currentcolor":        "rgb(51, 51, 51)",
		"initial":             "rgba(0, 0, 0, 0)",
	}
	for in, want := range tests {
		if got := d.ProbeBackgroundColor(in); got != want {
			t.Errorf("ProbeBackgroundColor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOverlay_Lifecycle(t *testing.T) {
	d := load(t)
	o := d.NewOverlay()
	if n := len(d.Overlays()); n != 1 {
		t.Fatalf("overlays after NewOverlay: %d, want 1", n)
	}
	o.Show(dom.OverlayContent{TextColor: "rgb(1, 2, 3)", BackgroundColor: "white", Info: "Font: 16px"})
	o.MoveTo(30, 40)

	box := d.Overlays()[0]
	if got := OverlayInfo(box); got != "Font: 16px" {
		t.Errorf("info: got %q", got)
	}
	if got := d.ComputedStyle(box, "left"); got != "30px" {
		t.Errorf("left: got %q, want 30px", got)
	}

	o.Remove()
	o.Remove()
	if n := len(d.Overlays()); n != 0 {
		t.Errorf("overlays after Remove: %d, want 0", n)
	}
}

func TestSubscribeDispatch(t *testing.T) {
	d := load(t)
	var got []dom.Input
	unsub := d.Subscribe(func(in dom.Input) { got = append(got, in) })
	d.Dispatch(dom.PointerMove{X: 1, Y: 2})
	d.Dispatch(dom.KeyDown{Key: "Escape"})
	unsub()
	d.Dispatch(dom.Click{})

	if len(got) != 2 {
		t.Fatalf("delivered %d inputs, want 2", len(got))
	}
	if d.Subscribers() != 0 {
		t.Errorf("Subscribers after unsubscribe: %d", d.Subscribers())
	}
}

func TestSetCursor(t *testing.T) {
	d := load(t)
	d.SetCursor("crosshair")
	if d.Cursor() != "crosshair" {
		t.Errorf("Cursor: got %q", d.Cursor())
	}
	if got := d.ComputedStyle(d.Body(), "cursor"); got != "crosshair" {
		t.Errorf("body cursor: got %q", got)
	}
}

func TestLoad_EmptyDocument(t *testing.T) {
	d, err := LoadString("")
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if d.Body() == nil {
		t.Fatal("Body: got nil, parser should synthesize one")
	}
	if got := d.ComputedStyle(d.Body(), "font-size"); got != "16px" {
		t.Errorf("default font-size: got %q", got)
	}
}

func TestQuery_InvalidSelector(t *testing.T) {
	d := load(t)
	if _, err := d.Query("[[["); err == nil {
		t.Error("invalid selector should fail")
	}
}

func TestWithStyleSheets_DocumentWins(t *testing.T) {
	d, err := LoadString(`<html><head><style>p { color: blue; }</style></head>
<body><p id="p">x</p><em id="em">y</em></body></html>`,
		WithStyleSheets("p { color: red; background-color: #eee; } em { color: teal; }"))
	if err != nil {
		t.Fatal(err)
	}
	p := d.MustQueryOne("#p")
	if got := d.ComputedStyle(p, "color"); got != "rgb(0, 0, 255)" {
		t.Errorf("p color: got %q, want the document's rule", got)
	}
	if got := d.ComputedStyle(p, "background-color"); got != "rgb(238, 238, 238)" {
		t.Errorf("p background: got %q", got)
	}
	if got := d.ComputedStyle(d.MustQueryOne("#em"), "color"); got != "rgb(0, 128, 128)" {
		t.Errorf("em color: got %q", got)
	}
}
