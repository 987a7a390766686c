package dom

import (
	"github.com/go-rod/rod"
)

// liveNode wraps a rod element on a live page. Reads swallow CDP errors and
// return zero values: a re-render can detach any element between queries,
// and the snapshot loop treats stale reads as "nothing there".
type liveNode struct {
	el *rod.Element
}

// FromElement wraps a rod element as a Node.
func FromElement(el *rod.Element) Node {
	return liveNode{el: el}
}

func (n liveNode) Find(selector string) []Node {
	els, err := n.el.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]Node, 0, len(els))
	for _, el := range els {
		out = append(out, liveNode{el: el})
	}
	return out
}

func (n liveNode) First(selector string) (Node, bool) {
	els, err := n.el.Elements(selector)
	if err != nil || len(els) == 0 {
		return nil, false
	}
	return liveNode{el: els.First()}, true
}

func (n liveNode) Text() string {
	t, err := n.el.Text()
	if err != nil {
		return ""
	}
	return CleanText(t)
}

func (n liveNode) Attr(name string) string {
	v, err := n.el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return *v
}

func (n liveNode) HasAttr(name string) bool {
	v, err := n.el.Attribute(name)
	return err == nil && v != nil
}

func (n liveNode) HTML() string {
	h, err := n.el.HTML()
	if err != nil {
		return ""
	}
	return h
}

func (n liveNode) Visible() bool {
	v, err := n.el.Visible()
	return err == nil && v
}

// Click activates the element through the page's own event handlers. A JS
// click sidesteps pointer geometry, which breaks on inputs the site hides
// behind styled label shapes.
func (n liveNode) Click() error {
	_, err := n.el.Eval(`() => this.click()`)
	return err
}

// pageNode adapts a whole rod page as the root Node of its document.
type pageNode struct {
	page *rod.Page
}

// FromPage wraps a rod page as the root Node of the live document.
func FromPage(page *rod.Page) Node {
	return pageNode{page: page}
}

func (p pageNode) Find(selector string) []Node {
	els, err := p.page.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]Node, 0, len(els))
	for _, el := range els {
		out = append(out, liveNode{el: el})
	}
	return out
}

func (p pageNode) First(selector string) (Node, bool) {
	els, err := p.page.Elements(selector)
	if err != nil || len(els) == 0 {
		return nil, false
	}
	return liveNode{el: els.First()}, true
}

func (p pageNode) Text() string { return "" }

func (p pageNode) Attr(string) string { return "" }

func (p pageNode) HasAttr(string) bool { return false }

func (p pageNode) HTML() string {
	h, err := p.page.HTML()
	if err != nil {
		return ""
	}
	return h
}

func (p pageNode) Visible() bool { return true }

func (p pageNode) Click() error { return ErrNotInteractive }
