package dom

import "errors"

// ErrNotInteractive is returned by Click on nodes backed by a frozen
// document, where simulating input is impossible.
var ErrNotInteractive = errors.New("dom: node is not interactive")

// Node is one element of a document, live (headless browser) or frozen
// (parsed HTML string). Readers are best-effort: a node that has gone stale
// mid-scan returns zero values rather than failing, mirroring how the
// extraction pipeline treats every read as advisory.
type Node interface {
	// Find returns all descendants matching the CSS selector, in DOM order.
	Find(selector string) []Node
	// First returns the first descendant matching the selector.
	First(selector string) (Node, bool)
	// Text returns the node's rendered text with whitespace collapsed.
	Text() string
	// Attr returns the value of the named attribute, or "" when absent.
	Attr(name string) string
	// HasAttr reports whether the attribute is present at all, which matters
	// for boolean attributes like checked and selected.
	HasAttr(name string) bool
	// HTML returns the node's outer HTML.
	HTML() string
	// Visible reports whether the element is currently rendered.
	Visible() bool
	// Click simulates activating the element.
	Click() error
}
