package skycoach

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukman83/boostgg-scrap/internal/dom"
	"github.com/lukman83/boostgg-scrap/internal/models"
)

// fakeSession simulates a reactive page as a set of frozen documents keyed
// by state. Clicking an element carrying data-click-state switches the
// active document, which is re-parsed on every query — the same "element
// detaches on re-render" behavior a live page shows.
type fakeSession struct {
	html  map[string]string
	state string
}

// fakeNode addresses one element by its data-tid attribute so it survives
// state switches. Elements without a data-tid are returned as plain static
// nodes, valid only until the next click.
type fakeNode struct {
	s   *fakeSession
	tid string
}

func (n fakeNode) cur() dom.Node {
	doc, err := dom.Parse(n.s.html[n.s.state])
	if err != nil {
		return nil
	}
	if n.tid == "" {
		return doc
	}
	el, ok := doc.First(fmt.Sprintf("[data-tid=%q]", n.tid))
	if !ok {
		return nil
	}
	return el
}

func (n fakeNode) wrap(m dom.Node) dom.Node {
	if tid := m.Attr("data-tid"); tid != "" {
		return fakeNode{s: n.s, tid: tid}
	}
	return m
}

func (n fakeNode) Find(selector string) []dom.Node {
	c := n.cur()
	if c == nil {
		return nil
	}
	var out []dom.Node
	for _, m := range c.Find(selector) {
		out = append(out, n.wrap(m))
	}
	return out
}

func (n fakeNode) First(selector string) (dom.Node, bool) {
	c := n.cur()
	if c == nil {
		return nil, false
	}
	m, ok := c.First(selector)
	if !ok {
		return nil, false
	}
	return n.wrap(m), true
}

func (n fakeNode) Text() string {
	if c := n.cur(); c != nil {
		return c.Text()
	}
	return ""
}

func (n fakeNode) Attr(name string) string {
	if c := n.cur(); c != nil {
		return c.Attr(name)
	}
	return ""
}

func (n fakeNode) HasAttr(name string) bool {
	c := n.cur()
	return c != nil && c.HasAttr(name)
}

func (n fakeNode) HTML() string {
	if c := n.cur(); c != nil {
		return c.HTML()
	}
	return ""
}

func (n fakeNode) Visible() bool {
	c := n.cur()
	return c != nil && c.Visible()
}

func (n fakeNode) Click() error {
	c := n.cur()
	if c == nil {
		return dom.ErrNotInteractive
	}
	if st := c.Attr("data-click-state"); st != "" {
		n.s.state = st
		return nil
	}
	return dom.ErrNotInteractive
}

func difficultyGroup(normalState string) string {
	return `
<div class="option-group" data-tid="g-difficulty">
  <div class="product-option" data-tid="difficulty">
    <div class="product-option__label">Difficulty</div>
    <div class="product-option-cluster-radios">
      <label class="radio-option">
        <input type="radio" value="easy" checked data-tid="in-easy" data-click-state="base">
        <span class="radio-check__label">Easy
          <span class="radio-option__info"><span class="radio-option__price">Free</span></span>
        </span>
      </label>
      <label class="radio-option">
        <input type="radio" value="normal" data-tid="in-normal" data-click-state="` + normalState + `">
        <span class="radio-check__label">Normal
          <span class="radio-option__info"><span class="radio-option__price">+6,43 &euro;</span></span>
        </span>
      </label>
      <label class="radio-option">
        <input type="radio" value="hard" data-tid="in-hard" data-click-state="hard">
        <span class="radio-check__label">Hard
          <span class="radio-option__info"><span class="radio-option__price">+12,87 &euro;</span></span>
        </span>
      </label>
    </div>
  </div>
</div>`
}

const levelsGroup = `
<div class="option-group" data-tid="g-levels">
  <div class="product-option">
    <div class="product-option__label">Number of Levels:</div>
    <div class="product-option-cluster-range">
      <div class="range__body"><div class="range__knob"></div><div class="range__knob"></div></div>
      <div class="range__scale-item">1</div>
      <div class="range__scale-item">60</div>
      <div class="input-container"><span class="label">From</span><input type="number" value="1"></div>
      <div class="input-container"><span class="label">To</span><input type="number" value="10"></div>
    </div>
  </div>
</div>`

const extrasGroup = `
<div class="option-group" data-tid="g-extras">
  <div class="product-option">
    <div class="product-option__label">Hardcore Extras</div>
    <div class="product-option-cluster-checkboxes">
      <label class="checkbox-option">
        <input type="checkbox" value="streaming">
        <span class="radio-check__label">Streaming
          <span class="checkbox-option__info"><span class="checkbox-option__price">+5,00 &euro;</span></span>
        </span>
      </label>
      <label class="checkbox-option">
        <input type="checkbox" value="insurance">
        <span class="radio-check__label">Deaths Insurance
          <span class="checkbox-option__info"><span class="checkbox-option__price">+3,50 &euro;</span></span>
        </span>
      </label>
    </div>
  </div>
</div>`

func pageHTML(groups ...string) string {
	body := ""
	for _, g := range groups {
		body += g
	}
	return `<html><body><div class="product-detail-calculator__options" data-tid="container">` + body + `</div></body></html>`
}

// newConfiguratorSession builds a page where selecting "Hard" (and, when
// normalState is "hard", also "Normal") reveals the Hardcore Extras group.
func newConfiguratorSession(normalState string) *fakeSession {
	return &fakeSession{
		state: "base",
		html: map[string]string{
			"base": pageHTML(levelsGroup, difficultyGroup(normalState)),
			"hard": pageHTML(levelsGroup, difficultyGroup(normalState), extrasGroup),
		},
	}
}

func newTestExtractor(reattach bool) *Extractor {
	return &Extractor{
		Writer:            newTestWriter(),
		ReattachIdentical: reattach,
		StabilizeTimeout:  40 * time.Millisecond,
		PollInterval:      5 * time.Millisecond,
	}
}

func rowsByName(rows []models.OptionRow, name string) []models.OptionRow {
	var out []models.OptionRow
	for _, r := range rows {
		if r.OptionName == name {
			out = append(out, r)
		}
	}
	return out
}

func TestExtractConditionalReveal(t *testing.T) {
	session := newConfiguratorSession("base")
	root := fakeNode{s: session}

	e := newTestExtractor(false)
	rows, diags, err := e.Extract(context.Background(), root, 7)
	require.NoError(t, err)
	assert.Empty(t, diags)

	// 1 range parent + 2 children, 1 radio parent + 3 children,
	// 1 revealed checkbox parent + 2 children
	require.Len(t, rows, 10)

	// baseline groups are not re-emitted during the trigger loop
	assert.Len(t, rowsByName(rows, "number_of_levels"), 1)
	assert.Len(t, rowsByName(rows, "difficulty"), 1)

	hard := rowsByName(rows, "difficulty_hard")
	require.Len(t, hard, 1)

	extras := rowsByName(rows, "hardcore_extras")
	require.Len(t, extras, 1)
	require.NotNil(t, extras[0].ParentOptionID)
	assert.Equal(t, hard[0].OptionID, *extras[0].ParentOptionID, "revealed group hangs off the Hard choice")

	for _, name := range []string{"hardcore_extras_streaming", "hardcore_extras_deaths_insurance"} {
		children := rowsByName(rows, name)
		require.Len(t, children, 1, name)
		require.NotNil(t, children[0].ParentOptionID)
		assert.Equal(t, extras[0].OptionID, *children[0].ParentOptionID)
	}

	for _, r := range rows {
		assert.Equal(t, int64(7), r.ServiceID)
	}
}

func TestExtractDedupesIdenticalReveals(t *testing.T) {
	// Normal and Hard reveal byte-identical extras
	session := newConfiguratorSession("hard")
	root := fakeNode{s: session}

	e := newTestExtractor(false)
	rows, _, err := e.Extract(context.Background(), root, 7)
	require.NoError(t, err)

	extras := rowsByName(rows, "hardcore_extras")
	require.Len(t, extras, 1, "identical reveal recorded once under the first revealing choice")

	normal := rowsByName(rows, "difficulty_normal")
	require.Len(t, normal, 1)
	assert.Equal(t, normal[0].OptionID, *extras[0].ParentOptionID)
}

func TestExtractReattachIdenticalReveals(t *testing.T) {
	session := newConfiguratorSession("hard")
	root := fakeNode{s: session}

	e := newTestExtractor(true)
	rows, _, err := e.Extract(context.Background(), root, 7)
	require.NoError(t, err)

	extras := rowsByName(rows, "hardcore_extras")
	require.Len(t, extras, 2, "identical reveal re-attached under every revealing choice")

	normal := rowsByName(rows, "difficulty_normal")
	hard := rowsByName(rows, "difficulty_hard")
	require.Len(t, normal, 1)
	require.Len(t, hard, 1)
	parents := []int64{*extras[0].ParentOptionID, *extras[1].ParentOptionID}
	assert.ElementsMatch(t, []int64{normal[0].OptionID, hard[0].OptionID}, parents)
}

func TestExtractNoTriggerEndsAfterBaseline(t *testing.T) {
	session := &fakeSession{
		state: "base",
		html:  map[string]string{"base": pageHTML(levelsGroup)},
	}
	e := newTestExtractor(false)
	rows, diags, err := e.Extract(context.Background(), fakeNode{s: session}, 7)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Len(t, rows, 3)
}

func TestExtractMissingContainer(t *testing.T) {
	session := &fakeSession{
		state: "base",
		html:  map[string]string{"base": `<html><body><h1>No options here</h1></body></html>`},
	}
	e := newTestExtractor(false)
	rows, diags, err := e.Extract(context.Background(), fakeNode{s: session}, 7)
	require.NoError(t, err)
	assert.Empty(t, rows)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "no options container")
}
