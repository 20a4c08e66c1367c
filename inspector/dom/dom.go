// Package dom defines the host surface the inspection engine runs against.
// A host is either a live browser tab or a parsed static document; the
// engine only sees these interfaces.
package dom

import "iter"

// Node is an opaque element handle owned by its Document. A nil Node means
// "no element".
type Node any

// Document is read access to an element tree and its computed styles.
type Document interface {
	// Root returns the document element (<html>).
	Root() Node
	// Body returns <body>, or nil when the document has none.
	Body() Node
	// Parent returns the parent element of n, or nil at the top.
	Parent(n Node) Node
	// IsRoot reports whether n is the document element.
	IsRoot(n Node) bool
	// Elements yields every element in document order.
	Elements() iter.Seq[Node]
	// ComputedStyle returns the resolved value of a CSS property, as
	// getComputedStyle(n).getPropertyValue(prop) would.
	ComputedStyle(n Node, prop string) string
	// ElementFromPoint returns the topmost element at viewport coordinates,
	// or nil.
	ElementFromPoint(x, y float64) Node
	// ProbeBackgroundColor applies value as the background-color of a
	// detached synthetic element, attaches it, and returns the computed
	// background color read back. A value the host drops reads back as the
	// initial transparent background, or "" when nothing could be read.
	ProbeBackgroundColor(value string) string
}

// Page is a Document that also accepts an overlay and delivers input.
type Page interface {
	Document
	// NewOverlay attaches a fresh follow-cursor overlay to the page.
	NewOverlay() Overlay
	// Subscribe registers a capture-phase handler for pointer, click,
	// double-click and key-down input on the whole document. The returned
	// function removes it.
	Subscribe(h func(Input)) (unsubscribe func())
	// SetCursor sets the CSS cursor of the page body.
	SetCursor(cursor string)
}

// OverlayContent is what the overlay renders: two swatches and info text.
type OverlayContent struct {
	TextColor       string
	BackgroundColor string
	Info            string
}

// Overlay is a floating readout owned by one inspection session.
type Overlay interface {
	Show(c OverlayContent)
	MoveTo(x, y float64)
	Remove()
}
