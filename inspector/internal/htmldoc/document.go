// CLAUDE:SUMMARY Static dom.Page over parsed HTML: douceur stylesheets, ericchiang selectors, explicit hit boxes.
// Package htmldoc implements the dom host interfaces over a parsed HTML
// document. Styles come from <style> sheets and style attributes; layout is
// not computed, so hit testing uses boxes assigned with Place.
package htmldoc

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync"

	selcss "github.com/ericchiang/css"
	"golang.org/x/net/html"

	"github.com/hazyhaar/csspeek/csscolor"
	"github.com/hazyhaar/csspeek/inspector/dom"
)

// Rect is an axis-aligned box in viewport coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Document is a parsed HTML page. It is safe for concurrent use.
type Document struct {
	mu     sync.Mutex
	doc    *html.Node
	root   *html.Node
	body   *html.Node
	logger *slog.Logger
	linked []string

	sheet    map[*html.Node][]declaration // matched stylesheet declarations
	computed map[*html.Node]style
	order    map[*html.Node]int
	boxes    map[*html.Node]Rect

	subs    map[int]func(dom.Input)
	nextSub int
	cursor  string
}

var _ dom.Page = (*Document)(nil)

// Option configures a Document.
type Option func(*Document)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) { d.logger = l }
}

// WithStyleSheets adds external stylesheet texts. They apply before the
// document's own <style> elements.
func WithStyleSheets(sheets ...string) Option {
	return func(d *Document) { d.linked = append(d.linked, sheets...) }
}

// Load parses an HTML document and its embedded stylesheets.
func Load(r io.Reader, opts ...Option) (*Document, error) {
	n, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parse: %w", err)
	}
	d := &Document{
		doc:      n,
		logger:   slog.Default(),
		sheet:    make(map[*html.Node][]declaration),
		computed: make(map[*html.Node]style),
		boxes:    make(map[*html.Node]Rect),
		subs:     make(map[int]func(dom.Input)),
	}
	for _, o := range opts {
		o(d)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "html" {
			d.root = c
		}
	}
	if d.root == nil {
		return nil, fmt.Errorf("htmldoc: no document element")
	}
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "body" {
			d.body = c
		}
	}

	for _, text := range d.linked {
		d.addStyleSheet(text)
	}
	for el := range walk(d.root) {
		if el.Data == "style" {
			d.addStyleSheet(textContent(el))
		}
	}
	d.reindex()
	return d, nil
}

// LoadString parses HTML from a string.
func LoadString(s string, opts ...Option) (*Document, error) {
	return Load(strings.NewReader(s), opts...)
}

// Root implements dom.Document.
func (d *Document) Root() dom.Node { return d.root }

// Body implements dom.Document.
func (d *Document) Body() dom.Node {
	if d.body == nil {
		return nil
	}
	return d.body
}

// Parent implements dom.Document.
func (d *Document) Parent(n dom.Node) dom.Node {
	el := asElement(n)
	if el == nil {
		return nil
	}
	if p := parentElement(el); p != nil {
		return p
	}
	return nil
}

// IsRoot implements dom.Document.
func (d *Document) IsRoot(n dom.Node) bool {
	return asElement(n) == d.root
}

// Elements implements dom.Document.
func (d *Document) Elements() iter.Seq[dom.Node] {
	return func(yield func(dom.Node) bool) {
		d.mu.Lock()
		els := make([]*html.Node, 0, len(d.order))
		for el := range walk(d.root) {
			els = append(els, el)
		}
		d.mu.Unlock()
		for _, el := range els {
			if !yield(el) {
				return
			}
		}
	}
}

// ComputedStyle implements dom.Document.
func (d *Document) ComputedStyle(n dom.Node, prop string) string {
	el := asElement(n)
	if el == nil {
		return ""
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.styleOf(el).get(strings.ToLower(prop))
}

// Place assigns a hit-test box to an element.
func (d *Document) Place(n *html.Node, r Rect) {
	d.mu.Lock()
	d.boxes[n] = r
	d.mu.Unlock()
}

// ElementFromPoint implements dom.Document. Among the placed boxes that
// contain the point, the element latest in document order wins, which is
// the one painted on top in normal flow.
func (d *Document) ElementFromPoint(x, y float64) dom.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	var hit *html.Node
	best := -1
	for el, r := range d.boxes {
		if el.Parent == nil || !r.Contains(x, y) {
			continue
		}
		if i, ok := d.order[el]; ok && i > best {
			hit, best = el, i
		}
	}
	if hit == nil {
		return nil
	}
	return hit
}

// ProbeBackgroundColor implements dom.Document: the value is resolved as
// the background-color of a fresh child of <body>. Values the grammar drops
// leave the initial transparent background.
func (d *Document) ProbeBackgroundColor(value string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	parent := initialStyle
	if d.body != nil {
		parent = d.styleOf(d.body)
	}
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "inherit":
		return parent.get("background-color")
	case "initial", "unset", "revert":
		return transparentRGB
	case "currentcolor":
		return parent.get("color")
	}
	c, err := csscolor.ParseStrict(v)
	if err != nil {
		return transparentRGB
	}
	return c.RGB()
}

// Query returns the elements matching a CSS selector, in document order.
func (d *Document) Query(selector string) ([]*html.Node, error) {
	sel, err := selcss.Parse(selector)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: selector %q: %w", selector, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return sel.Select(d.doc), nil
}

// MustQueryOne returns the first element matching selector and panics when
// there is none. Intended for tests and fixtures.
func (d *Document) MustQueryOne(selector string) *html.Node {
	els, err := d.Query(selector)
	if err != nil {
		panic(err)
	}
	if len(els) == 0 {
		panic("htmldoc: no element matches " + selector)
	}
	return els[0]
}

// reindex recomputes document order and drops cached styles. Callers hold
// mu or own d exclusively.
func (d *Document) reindex() {
	d.order = make(map[*html.Node]int)
	i := 0
	for el := range walk(d.root) {
		d.order[el] = i
		i++
	}
	clear(d.computed)
}

func asElement(n dom.Node) *html.Node {
	el, _ := n.(*html.Node)
	if el == nil || el.Type != html.ElementNode {
		return nil
	}
	return el
}

func parentElement(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

// walk yields n and its element descendants in document order.
func walk(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		var visit func(*html.Node) bool
		visit = func(c *html.Node) bool {
			if c.Type == html.ElementNode && !yield(c) {
				return false
			}
			for k := c.FirstChild; k != nil; k = k.NextSibling {
				if !visit(k) {
					return false
				}
			}
			return true
		}
		visit(n)
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
