package htmldoc

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	selcss "github.com/ericchiang/css"
	"golang.org/x/net/html"

	"github.com/hazyhaar/csspeek/csscolor"
)

// declaration is one longhand property assignment after shorthand expansion.
type declaration struct {
	prop      string
	value     string
	important bool
}

// addStyleSheet parses a stylesheet and attaches its declarations to every
// matching element. Specificity is not modelled: later rules win, then
// !important, then the style attribute.
func (d *Document) addStyleSheet(text string) {
	ss, err := parser.Parse(text)
	if err != nil {
		d.logger.Warn("htmldoc: stylesheet parse failed", "error", err)
		return
	}
	for _, rule := range ss.Rules {
		if rule.Kind != css.QualifiedRule || len(rule.Selectors) == 0 {
			continue
		}
		sel, err := selcss.Parse(strings.Join(rule.Selectors, ","))
		if err != nil {
			d.logger.Debug("htmldoc: unsupported selector",
				"selectors", rule.Selectors, "error", err)
			continue
		}
		decls := expand(rule.Declarations)
		for _, el := range sel.Select(d.doc) {
			d.sheet[el] = append(d.sheet[el], decls...)
		}
	}
}

// inlineDeclarations parses the current style attribute of el.
func inlineDeclarations(el *html.Node) []declaration {
	var text string
	for _, a := range el.Attr {
		if a.Key == "style" {
			text = a.Val
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	// douceur wants a trailing semicolon, which style attributes may omit.
	if !strings.HasSuffix(strings.TrimSpace(text), ";") {
		text += ";"
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return nil
	}
	return expand(decls)
}

// specified folds declarations into a property → value map honouring
// source order and !important.
func specified(decls ...[]declaration) map[string]string {
	out := make(map[string]string)
	important := make(map[string]bool)
	for _, list := range decls {
		for _, dc := range list {
			if important[dc.prop] && !dc.important {
				continue
			}
			out[dc.prop] = dc.value
			if dc.important {
				important[dc.prop] = true
			}
		}
	}
	return out
}

var edges = [4]string{"top", "right", "bottom", "left"}

// logicalEdges maps logical border sides to physical ones for a
// horizontal, left-to-right writing mode.
var logicalEdges = map[string]string{
	"block-start":  "top",
	"block-end":    "bottom",
	"inline-start": "left",
	"inline-end":   "right",
}

// expand rewrites shorthands and logical properties into the longhands the
// style computation understands.
func expand(in []*css.Declaration) []declaration {
	var out []declaration
	add := func(prop, value string, imp bool) {
		out = append(out, declaration{prop: prop, value: value, important: imp})
	}
	for _, dc := range in {
		prop := strings.ToLower(strings.TrimSpace(dc.Property))
		value := strings.TrimSpace(dc.Value)
		imp := dc.Important

		switch {
		case prop == "background":
			add("background-color", colorPart(value, "transparent"), imp)

		case prop == "border":
			c := colorPart(value, "currentcolor")
			for _, e := range edges {
				add("border-"+e+"-color", c, imp)
			}

		case prop == "border-color":
			for i, v := range boxValues(value) {
				add("border-"+edges[i]+"-color", v, imp)
			}

		case prop == "outline":
			add("outline-color", colorPart(value, "currentcolor"), imp)

		case isEdgeShorthand(prop):
			side := strings.TrimPrefix(prop, "border-")
			if phys, ok := logicalEdges[side]; ok {
				side = phys
			}
			add("border-"+side+"-color", colorPart(value, "currentcolor"), imp)

		case strings.HasPrefix(prop, "border-") && strings.HasSuffix(prop, "-color"):
			side := strings.TrimSuffix(strings.TrimPrefix(prop, "border-"), "-color")
			if phys, ok := logicalEdges[side]; ok {
				prop = "border-" + phys + "-color"
			}
			add(prop, value, imp)

		default:
			add(prop, value, imp)
		}
	}
	return out
}

func isEdgeShorthand(prop string) bool {
	side, ok := strings.CutPrefix(prop, "border-")
	if !ok {
		return false
	}
	for _, e := range edges {
		if side == e {
			return true
		}
	}
	_, ok = logicalEdges[side]
	return ok
}

// colorPart returns the color component of a shorthand value, or def when
// the shorthand carries none.
func colorPart(value, def string) string {
	for _, tok := range fields(value) {
		if _, err := csscolor.ParseStrict(tok); err == nil {
			return tok
		}
		if strings.EqualFold(tok, "currentcolor") {
			return tok
		}
	}
	return def
}

// boxValues expands the 1-4 value box syntax into top, right, bottom, left.
func boxValues(value string) [4]string {
	v := fields(value)
	switch len(v) {
	case 1:
		return [4]string{v[0], v[0], v[0], v[0]}
	case 2:
		return [4]string{v[0], v[1], v[0], v[1]}
	case 3:
		return [4]string{v[0], v[1], v[2], v[1]}
	case 0:
		return [4]string{"currentcolor", "currentcolor", "currentcolor", "currentcolor"}
	}
	return [4]string{v[0], v[1], v[2], v[3]}
}

// fields splits a value on whitespace outside parentheses.
func fields(value string) []string {
	return splitTopLevel(value, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
	})
}

// layers splits a value on commas outside parentheses.
func layers(value string) []string {
	return splitTopLevel(value, func(r rune) bool { return r == ',' })
}

func splitTopLevel(value string, sep func(rune) bool) []string {
	var out []string
	depth, start := 0, 0
	flush := func(end int) {
		if s := strings.TrimSpace(value[start:end]); s != "" {
			out = append(out, s)
		}
	}
	for i, r := range value {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && sep(r):
			flush(i)
			start = i + 1
		}
	}
	flush(len(value))
	return out
}
