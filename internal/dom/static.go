package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// staticNode wraps a goquery selection over a frozen HTML document. It
// answers the same queries as a live node but cannot interact.
type staticNode struct {
	sel *goquery.Selection
}

// Parse builds a read-only Node over a frozen HTML string.
func Parse(htmlContent string) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return staticNode{sel: doc.Selection}, nil
}

func (n staticNode) Find(selector string) []Node {
	var out []Node
	n.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, staticNode{sel: s})
	})
	return out
}

func (n staticNode) First(selector string) (Node, bool) {
	s := n.sel.Find(selector).First()
	if s.Length() == 0 {
		return nil, false
	}
	return staticNode{sel: s}, true
}

func (n staticNode) Text() string {
	return CleanText(n.sel.Text())
}

func (n staticNode) Attr(name string) string {
	v, _ := n.sel.Attr(name)
	return v
}

func (n staticNode) HasAttr(name string) bool {
	_, ok := n.sel.Attr(name)
	return ok
}

func (n staticNode) HTML() string {
	h, err := goquery.OuterHtml(n.sel)
	if err != nil {
		return ""
	}
	return h
}

// Visible approximates rendering state from markup alone: frozen documents
// carry no layout, so only explicit hiding counts.
func (n staticNode) Visible() bool {
	if n.HasAttr("hidden") {
		return false
	}
	style, _ := n.sel.Attr("style")
	return !strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none")
}

func (n staticNode) Click() error {
	return ErrNotInteractive
}

// CleanText collapses all runs of whitespace to single spaces and trims.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
