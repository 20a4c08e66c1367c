package htmldoc

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/csspeek/inspector/dom"
)

// OverlayAttr marks the nodes of an inspection overlay.
const OverlayAttr = "data-csspeek-overlay"

const overlayStyle = "position: fixed; z-index: 2147483647; pointer-events: none; " +
	"padding: 6px 8px; border-radius: 4px; font: 12px monospace; white-space: pre; " +
	"background: rgba(20, 20, 20, 0.9); color: #fff"

// overlay is a follow-cursor readout made of real nodes under <body>.
type overlay struct {
	d          *Document
	box        *html.Node
	textSwatch *html.Node
	bgSwatch   *html.Node
	info       *html.Node
}

// NewOverlay implements dom.Page.
func (d *Document) NewOverlay() dom.Overlay {
	d.mu.Lock()
	defer d.mu.Unlock()

	o := &overlay{
		d:          d,
		box:        newElement(atom.Div, "box", overlayStyle),
		textSwatch: newElement(atom.Span, "text", "display: inline-block; width: 14px; height: 14px"),
		bgSwatch:   newElement(atom.Span, "background", "display: inline-block; width: 14px; height: 14px"),
		info:       newElement(atom.Div, "info", ""),
	}
	o.info.AppendChild(&html.Node{Type: html.TextNode})
	o.box.AppendChild(o.textSwatch)
	o.box.AppendChild(o.bgSwatch)
	o.box.AppendChild(o.info)

	host := d.body
	if host == nil {
		host = d.root
	}
	host.AppendChild(o.box)
	d.reindex()
	return o
}

func (o *overlay) Show(c dom.OverlayContent) {
	o.d.mu.Lock()
	defer o.d.mu.Unlock()
	if o.box.Parent == nil {
		return
	}
	setStyleProp(o.textSwatch, "background-color", c.TextColor)
	setStyleProp(o.bgSwatch, "background-color", c.BackgroundColor)
	o.info.FirstChild.Data = c.Info
	clear(o.d.computed)
}

func (o *overlay) MoveTo(x, y float64) {
	o.d.mu.Lock()
	defer o.d.mu.Unlock()
	if o.box.Parent == nil {
		return
	}
	setStyleProp(o.box, "left", fmt.Sprintf("%gpx", x))
	setStyleProp(o.box, "top", fmt.Sprintf("%gpx", y))
	clear(o.d.computed)
}

func (o *overlay) Remove() {
	o.d.mu.Lock()
	defer o.d.mu.Unlock()
	if o.box.Parent == nil {
		return
	}
	o.box.Parent.RemoveChild(o.box)
	for el := range walk(o.box) {
		delete(o.d.boxes, el)
	}
	o.d.reindex()
}

// Overlays returns the overlay containers currently attached to the page.
func (d *Document) Overlays() []*html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*html.Node
	for el := range walk(d.root) {
		if attr(el, OverlayAttr) == "box" {
			out = append(out, el)
		}
	}
	return out
}

// OverlayInfo returns the info text of an overlay container.
func OverlayInfo(box *html.Node) string {
	for el := range walk(box) {
		if attr(el, OverlayAttr) == "info" {
			return textContent(el)
		}
	}
	return ""
}

// Subscribe implements dom.Page.
func (d *Document) Subscribe(h func(dom.Input)) func() {
	d.mu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = h
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
}

// Subscribers returns the number of registered input handlers.
func (d *Document) Subscribers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}

// Dispatch delivers in to every subscriber in registration order. Handlers
// run outside the document lock and may call back into the document.
func (d *Document) Dispatch(in dom.Input) {
	d.mu.Lock()
	ids := slices.Sorted(maps.Keys(d.subs))
	hs := make([]func(dom.Input), 0, len(ids))
	for _, id := range ids {
		hs = append(hs, d.subs[id])
	}
	d.mu.Unlock()

	for _, h := range hs {
		h(in)
	}
}

// SetCursor implements dom.Page.
func (d *Document) SetCursor(cursor string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursor = cursor
	if d.body != nil {
		setStyleProp(d.body, "cursor", cursor)
		clear(d.computed)
	}
}

// Cursor returns the cursor last set with SetCursor.
func (d *Document) Cursor() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

func newElement(a atom.Atom, role, style string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     []html.Attribute{{Key: OverlayAttr, Val: role}},
	}
	if style != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: style})
	}
	return n
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// setStyleProp replaces one declaration of the style attribute.
func setStyleProp(n *html.Node, prop, value string) {
	var parts []string
	for _, p := range strings.Split(attr(n, "style"), ";") {
		k, _, _ := strings.Cut(p, ":")
		if strings.TrimSpace(p) == "" || strings.EqualFold(strings.TrimSpace(k), prop) {
			continue
		}
		parts = append(parts, strings.TrimSpace(p))
	}
	if value != "" {
		parts = append(parts, prop+": "+value)
	}
	setAttr(n, "style", strings.Join(parts, "; "))
}
