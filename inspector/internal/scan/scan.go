// CLAUDE:SUMMARY Whole-document color sweep: extract, validate through the host, dedup by exact string, translucent first.
// Package scan collects the distinct colors used on a page.
package scan

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/hazyhaar/csspeek/csscolor"
	"github.com/hazyhaar/csspeek/inspector/dom"
	"github.com/hazyhaar/csspeek/inspector/event"
)

// Properties are the color-bearing properties read on every element.
var Properties = []string{
	"color",
	"background-color",
	"border-color",
	"border-top-color",
	"border-right-color",
	"border-bottom-color",
	"border-left-color",
	"outline-color",
	"box-shadow",
	"text-shadow",
	"border-block-start-color",
	"border-block-end-color",
	"border-inline-start-color",
	"border-inline-end-color",
}

// skipped are computed values that never contribute a candidate.
var skipped = map[string]bool{
	"":                 true,
	"transparent":      true,
	"rgba(0, 0, 0, 0)": true,
	"none":             true,
	"initial":          true,
	"inherit":          true,
}

// rejected are probe read-backs that mean the host dropped the value.
var rejected = map[string]bool{
	"":                 true,
	"transparent":      true,
	"rgba(0, 0, 0, 0)": true,
	"initial":          true,
	"inherit":          true,
}

// candidate is one distinct color string and where it was first seen.
type candidate struct {
	value string
	prop  string
}

// Run scans every element of doc. It always runs to completion.
func Run(doc dom.Document, logger *slog.Logger) event.ScanResult {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		cands    []candidate
		seen     = make(map[string]bool)
		elements int
	)
	add := func(value, prop string) {
		if value == "" || seen[value] {
			return
		}
		seen[value] = true
		cands = append(cands, candidate{value: value, prop: prop})
	}

	for el := range doc.Elements() {
		elements++
		for _, prop := range Properties {
			value := strings.TrimSpace(doc.ComputedStyle(el, prop))
			if skipped[value] {
				continue
			}
			tokens := csscolor.ExtractAll(value)
			if len(tokens) == 0 && !isShadow(prop) {
				tokens = []string{value}
			}
			for _, tok := range tokens {
				add(tok, prop)
			}
		}
	}

	colors := make([]event.ScanColor, 0, len(cands))
	for _, c := range cands {
		sc, ok := validate(doc, c)
		if !ok {
			logger.Debug("scan: candidate rejected", "value", c.value, "property", c.prop)
			continue
		}
		colors = append(colors, sc)
	}

	slices.SortStableFunc(colors, func(a, b event.ScanColor) int {
		return rank(a) - rank(b)
	})

	translucent := lo.CountBy(colors, func(c event.ScanColor) bool {
		return c.Classification == event.Translucent
	})
	res := event.ScanResult{
		Colors:      colors,
		Total:       len(colors),
		Translucent: translucent,
		Opaque:      len(colors) - translucent,
		Elements:    elements,
	}
	logger.Info("scan: done", "elements", elements, "candidates", len(cands),
		"colors", res.Total, "translucent", res.Translucent)
	return res
}

// validate round-trips a candidate through the host as a background color.
func validate(doc dom.Document, c candidate) (event.ScanColor, bool) {
	if len(c.value) < 3 {
		return event.ScanColor{}, false
	}
	probed := strings.TrimSpace(doc.ProbeBackgroundColor(c.value))
	if rejected[probed] {
		return event.ScanColor{}, false
	}
	v, err := csscolor.ParseStrict(probed)
	if err != nil {
		// The host accepted it; the value is unknown to the local grammar.
		v = csscolor.Parse(c.value)
	}
	class := event.Opaque
	if v.HasTransparency() {
		class = event.Translucent
	}
	return event.ScanColor{
		Value:          c.value,
		Hex:            v.DisplayHex(),
		Classification: class,
		Property:       c.prop,
	}, true
}

func rank(c event.ScanColor) int {
	if c.Classification == event.Translucent {
		return 0
	}
	return 1
}

func isShadow(prop string) bool {
	return prop == "box-shadow" || prop == "text-shadow"
}
