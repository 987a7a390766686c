package skycoach

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukman83/boostgg-scrap/internal/models"
	"github.com/lukman83/boostgg-scrap/internal/seq"
)

func newTestWriter() *Writer {
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &Writer{
		IDs: seq.New(0),
		Now: func() time.Time { return fixed },
	}
}

func writeFixture(t *testing.T, w *Writer, html string, order *int, rows *[]models.OptionRow) int64 {
	t.Helper()
	g := Classify(parseOption(t, html))
	id, err := w.Write(g, 7, nil, order, rows)
	require.NoError(t, err)
	return id
}

func TestWriteRange(t *testing.T) {
	w := newTestWriter()
	order := 1
	var rows []models.OptionRow

	parentID := writeFixture(t, w, rangeFixture, &order, &rows)

	require.Len(t, rows, 3)
	parent := rows[0]
	assert.Equal(t, parentID, parent.OptionID)
	assert.Equal(t, "range", parent.OptionType)
	assert.Equal(t, "number_of_levels", parent.OptionName)
	assert.Equal(t, "Number of Levels", parent.OptionLabel)
	assert.Nil(t, parent.ParentOptionID)
	assert.True(t, parent.IsRequired)

	from, to := rows[1], rows[2]
	assert.Equal(t, "number_of_levels_from", from.OptionName)
	assert.Equal(t, "number_of_levels_to", to.OptionName)
	assert.Equal(t, "From", from.OptionLabel)
	assert.Equal(t, "To", to.OptionLabel)
	for _, child := range []models.OptionRow{from, to} {
		assert.Equal(t, "range_value", child.OptionType)
		require.NotNil(t, child.ParentOptionID)
		assert.Equal(t, parentID, *child.ParentOptionID)
		require.NotNil(t, child.MinValue)
		require.NotNil(t, child.MaxValue)
		assert.Equal(t, 1, *child.MinValue)
		assert.Equal(t, 60, *child.MaxValue)
	}
	require.NotNil(t, from.DefaultValue)
	require.NotNil(t, to.DefaultValue)
	assert.Equal(t, "1", *from.DefaultValue)
	assert.Equal(t, "10", *to.DefaultValue)
}

func TestWriteSlider(t *testing.T) {
	w := newTestWriter()
	order := 1
	var rows []models.OptionRow

	parentID := writeFixture(t, w, sliderFixture, &order, &rows)

	require.Len(t, rows, 2)
	assert.Equal(t, "slider", rows[0].OptionType)
	child := rows[1]
	assert.Equal(t, "slider_value", child.OptionType)
	assert.Equal(t, "hours_value", child.OptionName)
	require.NotNil(t, child.ParentOptionID)
	assert.Equal(t, parentID, *child.ParentOptionID)
	require.NotNil(t, child.DefaultValue)
	assert.Equal(t, "2", *child.DefaultValue)
}

func TestWriteRadio(t *testing.T) {
	w := newTestWriter()
	order := 1
	var rows []models.OptionRow

	parentID := writeFixture(t, w, radioFixture(""), &order, &rows)

	require.Len(t, rows, 4)
	assert.Equal(t, "difficulty", rows[0].OptionName)
	assert.True(t, rows[0].IsRequired)

	labels := []string{"Easy", "Normal", "Hard"}
	values := []string{"easy", "normal", "hard"}
	prices := []string{"0.00", "6.43", "12.87"}
	for i, child := range rows[1:] {
		require.NotNil(t, child.ParentOptionID)
		assert.Equal(t, parentID, *child.ParentOptionID)
		assert.Equal(t, labels[i], child.OptionLabel)
		require.NotNil(t, child.OptionValue)
		assert.Equal(t, values[i], *child.OptionValue)
		assert.Equal(t, prices[i], child.PriceModifier.StringFixed(2))
	}

	// the checked choice carries the default
	require.NotNil(t, rows[1].DefaultValue)
	assert.Equal(t, "easy", *rows[1].DefaultValue)
	assert.Nil(t, rows[2].DefaultValue)
	assert.Nil(t, rows[3].DefaultValue)
}

func TestWriteCheckbox(t *testing.T) {
	w := newTestWriter()
	order := 1
	var rows []models.OptionRow

	writeFixture(t, w, checkboxFixture, &order, &rows)

	require.Len(t, rows, 3)
	assert.Equal(t, "checkbox", rows[0].OptionType)
	assert.False(t, rows[0].IsRequired)
	assert.Equal(t, "extras_streaming", rows[1].OptionName)
	assert.Equal(t, "extras_60_percent_riding_skill", rows[2].OptionName)
	assert.Equal(t, "5.00", rows[1].PriceModifier.StringFixed(2))
}

func TestWriteSelect(t *testing.T) {
	w := newTestWriter()
	order := 1
	var rows []models.OptionRow

	writeFixture(t, w, selectFixture, &order, &rows)

	require.Len(t, rows, 4)
	assert.Equal(t, models.TypeDropdown, rows[0].OptionType)
	require.NotNil(t, rows[1].DefaultValue)
	assert.Equal(t, "mage", *rows[1].DefaultValue)
	assert.Nil(t, rows[2].DefaultValue)
}

func TestWriteButtons(t *testing.T) {
	w := newTestWriter()
	order := 1
	var rows []models.OptionRow

	writeFixture(t, w, buttonsFixture, &order, &rows)

	require.Len(t, rows, 3)
	assert.Equal(t, "buttons", rows[0].OptionType)
	assert.Equal(t, "mode_piloted", rows[1].OptionName)
	assert.Equal(t, "mode_self-play", rows[2].OptionName)
}

func TestWriteUnknownEmitsNothing(t *testing.T) {
	w := newTestWriter()
	order := 1
	var rows []models.OptionRow

	g := Classify(parseOption(t, `<div class="product-option"><p>prose</p></div>`))
	_, err := w.Write(g, 7, nil, &order, &rows)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Empty(t, rows)
}

func TestWriteOrderingAndTreeIntegrity(t *testing.T) {
	w := newTestWriter()
	order := 1
	var rows []models.OptionRow

	writeFixture(t, w, rangeFixture, &order, &rows)
	writeFixture(t, w, radioFixture(""), &order, &rows)
	writeFixture(t, w, checkboxFixture, &order, &rows)

	ids := make(map[int64]bool)
	for i, r := range rows {
		assert.Equal(t, i+1, r.DisplayOrder, "display order is the emission order")
		assert.False(t, ids[r.OptionID], "option ids are unique")
		ids[r.OptionID] = true
	}
	for _, r := range rows {
		if r.ParentOptionID != nil {
			assert.True(t, ids[*r.ParentOptionID], "every parent reference resolves within the batch")
		}
	}
}
