package skycoach

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukman83/boostgg-scrap/internal/dom"
	"github.com/lukman83/boostgg-scrap/internal/models"
)

// parseOption parses fixture HTML and returns its first .product-option node.
func parseOption(t *testing.T, html string) dom.Node {
	t.Helper()
	doc, err := dom.Parse(html)
	require.NoError(t, err)
	n, ok := doc.First(selProductOption)
	require.True(t, ok, "fixture has no product option node")
	return n
}

const rangeFixture = `
<div class="product-option">
  <div class="product-option__label">Number of Levels:</div>
  <div class="product-option-cluster-range">
    <div class="range__body">
      <div class="range__knob"></div>
      <div class="range__knob"></div>
    </div>
    <div class="range__scale-item">1</div>
    <div class="range__scale-item">30</div>
    <div class="range__scale-item">60</div>
    <div class="input-container"><span class="label">From</span><input type="number" value="1"></div>
    <div class="input-container"><span class="label">To</span><input type="number" value="10"></div>
  </div>
</div>`

const sliderFixture = `
<div class="product-option">
  <div class="product-option-cluster-range">
    <div class="range__body"><div class="range__knob"></div></div>
    <div class="range__scale-item">1</div>
    <div class="range__scale-item">10</div>
    <div class="input-container"><span class="label">Hours</span><input type="number" value="2"></div>
  </div>
</div>`

func radioFixture(attrs string) string {
	return `
<div class="product-option" ` + attrs + `>
  <div class="product-option__label">Difficulty</div>
  <div class="product-option-cluster-radios" ` + attrs + `>
    <label class="radio-option">
      <input type="radio" name="difficulty" value="easy" checked>
      <span class="radio-check__label">Easy
        <span class="radio-option__info"><span class="radio-option__price">Free</span></span>
      </span>
    </label>
    <label class="radio-option">
      <input type="radio" name="difficulty" value="normal">
      <span class="radio-check__label">Normal
        <span class="radio-option__info"><span class="radio-option__price">+6,43 &euro;</span></span>
      </span>
    </label>
    <label class="radio-option">
      <input type="radio" name="difficulty" value="hard">
      <span class="radio-check__label">Hard
        <span class="radio-option__info"><span class="radio-option__price">+12,87 &euro;</span></span>
      </span>
    </label>
  </div>
</div>`
}

const checkboxFixture = `
<div class="product-option">
  <div class="product-option__label">Extras</div>
  <div class="product-option-cluster-checkboxes">
    <label class="checkbox-option">
      <input type="checkbox" value="streaming">
      <span class="radio-check__label">Streaming
        <span class="checkbox-option__info"><span class="checkbox-option__price">+5,00 &euro;</span></span>
      </span>
    </label>
    <label class="checkbox-option">
      <input type="checkbox" value="riding_60">
      <span class="radio-check__label">60% Riding Skill
        <span class="checkbox-option__info"><span class="checkbox-option__price">+3,50 &euro;</span></span>
      </span>
    </label>
  </div>
</div>`

const selectFixture = `
<div class="product-option">
  <div class="product-option__label">Class</div>
  <div class="product-option-cluster-select">
    <select>
      <option value="mage" selected>Mage</option>
      <option value="warlock">Warlock</option>
      <option value="priest">Priest</option>
    </select>
  </div>
</div>`

const buttonsFixture = `
<div class="product-option">
  <div class="product-option__label">Mode</div>
  <div class="product-option-cluster-buttons">
    <button><span class="button-option__label">Piloted</span></button>
    <button><span class="button-option__label">Self-Play</span></button>
  </div>
</div>`

func TestClassifyKinds(t *testing.T) {
	cases := []struct {
		name  string
		html  string
		kind  models.Kind
		label string
	}{
		{"range", rangeFixture, models.KindRange, "Number of Levels"},
		{"slider without header uses input label", sliderFixture, models.KindSlider, "Hours"},
		{"radio", radioFixture(""), models.KindRadio, "Difficulty"},
		{"checkbox", checkboxFixture, models.KindCheckbox, "Extras"},
		{"select", selectFixture, models.KindSelect, "Class"},
		{"buttons", buttonsFixture, models.KindButtons, "Mode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := Classify(parseOption(t, tc.html))
			assert.Equal(t, tc.kind, g.Kind)
			assert.Equal(t, tc.label, g.Label)
			assert.NotEmpty(t, g.Signature)
		})
	}
}

func TestClassifyUnknown(t *testing.T) {
	g := Classify(parseOption(t, `<div class="product-option"><div class="product-option__label">Mystery</div><p>prose</p></div>`))
	assert.Equal(t, models.KindUnknown, g.Kind)
	assert.NotEmpty(t, g.Signature)
}

func TestSignatureStableAcrossMarkupChurn(t *testing.T) {
	a := Classify(parseOption(t, radioFixture(`data-v-1a2b3c`)))
	b := Classify(parseOption(t, radioFixture(`data-v-9z8y7x class="re-rendered"`)))
	assert.Equal(t, a.Signature, b.Signature)
}

func TestSignatureSensitivity(t *testing.T) {
	base := Classify(parseOption(t, radioFixture("")))

	t.Run("price text change", func(t *testing.T) {
		changed := Classify(parseOption(t, radioFixtureWithPrice("+99,99 €")))
		assert.NotEqual(t, base.Signature, changed.Signature)
	})

	t.Run("choice label change", func(t *testing.T) {
		html := radioFixture("")
		html = replaceOnce(html, ">Easy", ">Trivial")
		changed := Classify(parseOption(t, html))
		assert.NotEqual(t, base.Signature, changed.Signature)
	})

	t.Run("choice value change", func(t *testing.T) {
		html := radioFixture("")
		html = replaceOnce(html, `value="easy"`, `value="story"`)
		changed := Classify(parseOption(t, html))
		assert.NotEqual(t, base.Signature, changed.Signature)
	})

	t.Run("scale bound change", func(t *testing.T) {
		a := Classify(parseOption(t, rangeFixture))
		b := Classify(parseOption(t, replaceOnce(rangeFixture, ">60<", ">70<")))
		assert.NotEqual(t, a.Signature, b.Signature)
	})
}

func radioFixtureWithPrice(price string) string {
	return replaceOnce(radioFixture(""), "+12,87 &euro;", price)
}

func replaceOnce(s, old, new string) string {
	return strings.Replace(s, old, new, 1)
}
