// CLAUDE:SUMMARY Effective text/background color and root-relative font metrics for one element.
// Package sampler reads the values shown by the inspection overlay for a
// single element: text color, visible background color and font metrics.
package sampler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hazyhaar/csspeek/csscolor"
	"github.com/hazyhaar/csspeek/inspector/dom"
	"github.com/hazyhaar/csspeek/inspector/event"
)

// Sampler samples elements of one document.
type Sampler struct {
	doc dom.Document
}

// New returns a Sampler over doc.
func New(doc dom.Document) *Sampler {
	return &Sampler{doc: doc}
}

// TextColor returns the computed color of el.
func (s *Sampler) TextColor(el dom.Node) csscolor.Value {
	return csscolor.Parse(s.doc.ComputedStyle(el, "color"))
}

// BackgroundColor returns the first visible background found walking from
// el up to (not including) the document element. When every ancestor is
// transparent the body background is used, and white when that is
// transparent too.
func (s *Sampler) BackgroundColor(el dom.Node) csscolor.Value {
	for cur := el; cur != nil && !s.doc.IsRoot(cur); cur = s.doc.Parent(cur) {
		if c, ok := visible(s.doc.ComputedStyle(cur, "background-color")); ok {
			return c
		}
	}
	if body := s.doc.Body(); body != nil {
		if c, ok := visible(s.doc.ComputedStyle(body, "background-color")); ok {
			return c
		}
	}
	return csscolor.White
}

// RelativeFontSize returns the font size of el divided by the root font
// size, as "1.25rem".
func (s *Sampler) RelativeFontSize(el dom.Node) string {
	size := px(s.doc.ComputedStyle(el, "font-size"))
	root := px(s.doc.ComputedStyle(s.doc.Root(), "font-size"))
	if root <= 0 {
		root = 16
	}
	return fmt.Sprintf("%.2frem", size/root)
}

// Sample takes a full readout of el.
func (s *Sampler) Sample(el dom.Node) event.Sample {
	text := s.TextColor(el)
	bg := s.BackgroundColor(el)
	return event.Sample{
		FontSize:   s.doc.ComputedStyle(el, "font-size"),
		FontRem:    s.RelativeFontSize(el),
		FontWeight: s.doc.ComputedStyle(el, "font-weight"),
		TextColor:  text.RGB(),
		TextHex:    text.DisplayHex(),
		BgColor:    bg.RGB(),
		BgHex:      bg.DisplayHex(),
	}
}

// Info renders the overlay text for a sample.
func Info(sm event.Sample) string {
	return fmt.Sprintf("Font: %s (%s)\nWeight: %s\nText: %s | %s\nBackground: %s | %s",
		sm.FontSize, sm.FontRem, sm.FontWeight,
		sm.TextColor, sm.TextHex, sm.BgColor, sm.BgHex)
}

func visible(v string) (csscolor.Value, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "transparent") {
		return csscolor.Value{}, false
	}
	c, err := csscolor.ParseStrict(v)
	if err != nil || c.IsTransparent() {
		return csscolor.Value{}, false
	}
	return c, true
}

func px(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil {
		return 0
	}
	return f
}
