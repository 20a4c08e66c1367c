package htmldoc

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/csspeek/csscolor"
)

const transparentRGB = "rgba(0, 0, 0, 0)"

// style is a computed style: property → resolved value.
type style map[string]string

// get resolves shorthands and logical aliases on read, the way
// getPropertyValue does on a computed style declaration.
func (s style) get(prop string) string {
	if prop == "border-color" {
		return collapseBox(s["border-top-color"], s["border-right-color"],
			s["border-bottom-color"], s["border-left-color"])
	}
	if side, ok := strings.CutPrefix(prop, "border-"); ok {
		if side, ok = strings.CutSuffix(side, "-color"); ok {
			if phys, ok := logicalEdges[side]; ok {
				return s["border-"+phys+"-color"]
			}
		}
	}
	return s[prop]
}

var initialStyle = style{
	"color":               "rgb(0, 0, 0)",
	"font-size":           "16px",
	"font-weight":         "400",
	"background-color":    transparentRGB,
	"border-top-color":    "rgb(0, 0, 0)",
	"border-right-color":  "rgb(0, 0, 0)",
	"border-bottom-color": "rgb(0, 0, 0)",
	"border-left-color":   "rgb(0, 0, 0)",
	"outline-color":       "rgb(0, 0, 0)",
	"box-shadow":          "none",
	"text-shadow":         "none",
}

var inheritedProps = map[string]bool{
	"color":       true,
	"font-size":   true,
	"font-weight": true,
	"font-family": true,
	"text-shadow": true,
	"line-height": true,
	"visibility":  true,
	"cursor":      true,
}

// styleOf computes (and caches) the style of el. Callers hold mu.
func (d *Document) styleOf(el *html.Node) style {
	if s, ok := d.computed[el]; ok {
		return s
	}
	parent := initialStyle
	if p := parentElement(el); p != nil {
		parent = d.styleOf(p)
	}
	given := specified(d.sheet[el], inlineDeclarations(el))

	s := make(style, len(initialStyle)+len(given))
	for k, v := range parent {
		if inheritedProps[k] {
			s[k] = v
		}
	}
	for k, v := range given {
		switch strings.ToLower(v) {
		case "inherit":
			s[k] = parent[k]
		case "initial":
			delete(s, k)
		case "unset":
			if !inheritedProps[k] {
				delete(s, k)
			}
		default:
			s[k] = v
		}
	}

	color := resolveColor(given["color"], true, parent["color"], parent["color"], initialStyle["color"])
	s["color"] = color
	s["background-color"] = resolveColor(given["background-color"], false, parent["background-color"], color, transparentRGB)
	for _, e := range edges {
		p := "border-" + e + "-color"
		s[p] = resolveColor(given[p], false, parent[p], color, "currentcolor")
	}
	s["outline-color"] = resolveColor(given["outline-color"], false, parent["outline-color"], color, "currentcolor")

	s["font-size"] = formatPx(d.fontSizePx(el, given["font-size"], pxValue(parent["font-size"])))
	s["font-weight"] = fontWeight(given["font-weight"], parent["font-weight"])

	s["box-shadow"] = shadow(given["box-shadow"], false, parent["box-shadow"], color)
	s["text-shadow"] = shadow(given["text-shadow"], true, parent["text-shadow"], color)

	d.computed[el] = s
	return s
}

// resolveColor computes a color-valued property. An empty or invalid
// specified value falls back to inheritance or the initial value.
func resolveColor(v string, inherits bool, parentVal, current, initial string) string {
	fallback := func() string {
		if inherits {
			return parentVal
		}
		if initial == "currentcolor" {
			return current
		}
		return initial
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "unset":
		return fallback()
	case "inherit":
		return parentVal
	case "initial":
		if initial == "currentcolor" {
			return current
		}
		return initial
	case "currentcolor":
		return current
	}
	c, err := csscolor.ParseStrict(v)
	if err != nil {
		return fallback()
	}
	return c.RGB()
}

var fontKeywords = map[string]float64{
	"xx-small":  9,
	"x-small":   10,
	"small":     13,
	"medium":    16,
	"large":     18,
	"x-large":   24,
	"xx-large":  32,
	"xxx-large": 48,
}

// fontSizePx resolves a specified font-size against the parent and root.
func (d *Document) fontSizePx(el *html.Node, v string, parentPx float64) float64 {
	v = strings.ToLower(strings.TrimSpace(v))
	if px, ok := fontKeywords[v]; ok {
		return px
	}
	switch v {
	case "", "inherit", "unset":
		return parentPx
	case "initial":
		return 16
	case "larger":
		return parentPx * 1.2
	case "smaller":
		return parentPx / 1.2
	}

	unit := func(suffix string) (float64, bool) {
		num, ok := strings.CutSuffix(v, suffix)
		if !ok {
			return 0, false
		}
		f, err := strconv.ParseFloat(num, 64)
		return f, err == nil && f >= 0
	}
	if f, ok := unit("rem"); ok {
		rootPx := 16.0
		if el != d.root {
			rootPx = pxValue(d.styleOf(d.root)["font-size"])
		}
		return f * rootPx
	}
	if f, ok := unit("em"); ok {
		return f * parentPx
	}
	if f, ok := unit("px"); ok {
		return f
	}
	if f, ok := unit("pt"); ok {
		return f * 4 / 3
	}
	if f, ok := unit("%"); ok {
		return f * parentPx / 100
	}
	return parentPx
}

func fontWeight(v, parent string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	pw, err := strconv.ParseFloat(parent, 64)
	if err != nil {
		pw = 400
	}
	switch v {
	case "", "inherit", "unset":
		return parent
	case "initial", "normal":
		return "400"
	case "bold":
		return "700"
	case "bolder":
		switch {
		case pw < 350:
			return "400"
		case pw < 550:
			return "700"
		}
		return "900"
	case "lighter":
		switch {
		case pw < 550:
			return "100"
		case pw < 750:
			return "400"
		}
		return "700"
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 1 && f <= 1000 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return parent
}

// shadow normalises a shadow list so every layer leads with its computed
// color, defaulting to currentcolor.
func shadow(v string, inherits bool, parentVal, current string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		if inherits {
			return parentVal
		}
		return "none"
	case "inherit":
		return parentVal
	case "unset":
		if inherits {
			return parentVal
		}
		return "none"
	case "initial", "none":
		return "none"
	}
	var out []string
	for _, layer := range layers(v) {
		color := current
		var rest []string
		for _, f := range fields(layer) {
			if c, err := csscolor.ParseStrict(f); err == nil {
				color = c.RGB()
				continue
			}
			if strings.EqualFold(f, "currentcolor") {
				continue
			}
			rest = append(rest, f)
		}
		out = append(out, strings.TrimSpace(color+" "+strings.Join(rest, " ")))
	}
	return strings.Join(out, ", ")
}

// collapseBox serialises four edge values the way a box shorthand is
// serialised: as few values as round-trip.
func collapseBox(t, r, b, l string) string {
	switch {
	case t == r && r == b && b == l:
		return t
	case t == b && r == l:
		return t + " " + r
	case r == l:
		return t + " " + r + " " + b
	}
	return t + " " + r + " " + b + " " + l
}

func pxValue(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil {
		return 16
	}
	return f
}

func formatPx(f float64) string {
	return strconv.FormatFloat(math.Round(f*1e4)/1e4, 'f', -1, 64) + "px"
}
