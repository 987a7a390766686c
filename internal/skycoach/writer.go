package skycoach

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lukman83/boostgg-scrap/internal/models"
)

// ErrUnknownKind marks a group whose shape the classifier could not place.
// The snapshot engine drops such groups with a diagnostic instead of
// emitting rows for them.
var ErrUnknownKind = errors.New("skycoach: unknown option group kind")

// IDSource yields extraction-scoped ids. One source is shared by all
// concurrent page workers so ids stay dense and unique across a run.
type IDSource interface {
	Next() int64
}

// Writer turns classified groups into option rows. For every group it emits
// one parent row (the axis) followed by its choice/value children, assigning
// ids from IDs and strictly increasing display order from the batch cursor.
type Writer struct {
	IDs IDSource
	Now func() time.Time
}

// Write emits rows for one group under the given parent (nil for top-level
// groups) and returns the extraction id of the emitted parent row.
func (w *Writer) Write(g Group, serviceID int64, parentID *int64, order *int, rows *[]models.OptionRow) (int64, error) {
	switch g.Kind {
	case models.KindSlider, models.KindRange:
		return w.writeNumeric(g, serviceID, parentID, order, rows), nil
	case models.KindRadio:
		return w.writeToggles(g, selRadioCluster, selRadioOption, selRadioInput, selRadioPrice,
			models.TypeRadio, true, serviceID, parentID, order, rows), nil
	case models.KindCheckbox:
		return w.writeToggles(g, selCheckboxCluster, selCheckboxOption, selCheckboxInput, selCheckboxPrice,
			models.TypeCheckbox, false, serviceID, parentID, order, rows), nil
	case models.KindButtons:
		return w.writeButtons(g, serviceID, parentID, order, rows), nil
	case models.KindSelect:
		return w.writeSelect(g, serviceID, parentID, order, rows), nil
	default:
		return 0, ErrUnknownKind
	}
}

// writeNumeric handles both slider (one value child) and range (from/to
// children). Scale bounds come from the first and last visible tick;
// defaults from the numeric inputs, positionally.
func (w *Writer) writeNumeric(g Group, serviceID int64, parentID *int64, order *int, rows *[]models.OptionRow) int64 {
	cluster, _ := g.Node.First(selRangeCluster)

	var minV, maxV *int
	var defaults []string
	labels := []string{}
	if cluster != nil {
		if scale := cluster.Find(selRangeScale); len(scale) > 0 {
			if v, err := strconv.Atoi(scale[0].Text()); err == nil {
				minV = &v
			}
			if v, err := strconv.Atoi(scale[len(scale)-1].Text()); err == nil {
				maxV = &v
			}
		}
		for _, in := range cluster.Find(selRangeInputs) {
			defaults = append(defaults, in.Attr("value"))
		}
		labels = inputLabels(cluster)
	}

	parentSlug := slugify(g.Label)
	parent := w.row(serviceID, parentID, g.Kind.String(), parentSlug, g.Label, order)
	parent.IsRequired = true
	parentRowID := parent.OptionID
	*rows = append(*rows, parent)

	defaultAt := func(i int) string {
		if i < len(defaults) {
			return defaults[i]
		}
		return ""
	}

	if g.Kind == models.KindSlider {
		label := g.Label
		if len(labels) > 0 {
			label = labels[0]
		}
		child := w.row(serviceID, &parentRowID, g.Kind.String()+"_value", parentSlug+"_value", label, order)
		child.IsRequired = true
		child.MinValue, child.MaxValue = minV, maxV
		if v := defaultAt(0); v != "" {
			child.OptionValue, child.DefaultValue = &v, strPtr(v)
		}
		*rows = append(*rows, child)
		return parentRowID
	}

	// range: exactly two children, From/To
	sides := []struct{ suffix, fallback string }{
		{"_from", "From"},
		{"_to", "To"},
	}
	for i, side := range sides {
		label := side.fallback
		if i < len(labels) {
			label = labels[i]
		}
		child := w.row(serviceID, &parentRowID, g.Kind.String()+"_value", parentSlug+side.suffix, label, order)
		child.IsRequired = true
		child.MinValue, child.MaxValue = minV, maxV
		if v := defaultAt(i); v != "" {
			child.OptionValue, child.DefaultValue = &v, strPtr(v)
		}
		*rows = append(*rows, child)
	}
	return parentRowID
}

// writeToggles handles radio and checkbox groups, which share layout: one
// parent plus one child per visible choice, each carrying its own price
// modifier and, when the input is marked checked, a default value.
func (w *Writer) writeToggles(g Group, clusterSel, optionSel, inputSel, priceSel, optionType string,
	required bool, serviceID int64, parentID *int64, order *int, rows *[]models.OptionRow) int64 {

	parentSlug := slugify(g.Label)
	parent := w.row(serviceID, parentID, optionType, parentSlug, g.Label, order)
	parent.IsRequired = required
	parentRowID := parent.OptionID
	*rows = append(*rows, parent)

	cluster, ok := g.Node.First(clusterSel)
	if !ok {
		return parentRowID
	}
	for _, choice := range cluster.Find(optionSel) {
		if !choice.Visible() {
			continue
		}
		in, ok := choice.First(inputSel)
		if !ok {
			continue
		}
		label := choiceLabel(choice)
		value := in.Attr("value")
		if value == "" {
			value = slugify(label)
		}

		child := w.row(serviceID, &parentRowID, optionType, parentSlug+"_"+slugify(label), label, order)
		child.OptionValue = &value
		if p, ok := choice.First(priceSel); ok {
			if m := ParseModifier(p.Text()); m != nil {
				child.PriceModifier = m.Value
			}
		}
		if in.HasAttr("checked") {
			child.DefaultValue = strPtr(value)
		}
		*rows = append(*rows, child)
	}
	return parentRowID
}

// writeButtons lays out a button bar like a radio group. Rows go out typed
// "buttons" and become radio during normalization.
func (w *Writer) writeButtons(g Group, serviceID int64, parentID *int64, order *int, rows *[]models.OptionRow) int64 {
	parentSlug := slugify(g.Label)
	parent := w.row(serviceID, parentID, g.Kind.String(), parentSlug, g.Label, order)
	parent.IsRequired = true
	parentRowID := parent.OptionID
	*rows = append(*rows, parent)

	cluster, ok := g.Node.First(selButtonsCluster)
	if !ok {
		return parentRowID
	}
	for _, btn := range cluster.Find("button") {
		if !btn.Visible() {
			continue
		}
		label := buttonLabel(btn)
		value := slugify(label)
		child := w.row(serviceID, &parentRowID, g.Kind.String(), parentSlug+"_"+value, label, order)
		child.OptionValue = &value
		*rows = append(*rows, child)
	}
	return parentRowID
}

func (w *Writer) writeSelect(g Group, serviceID int64, parentID *int64, order *int, rows *[]models.OptionRow) int64 {
	parentSlug := slugify(g.Label)
	parent := w.row(serviceID, parentID, models.TypeDropdown, parentSlug, g.Label, order)
	parent.IsRequired = true
	parentRowID := parent.OptionID
	*rows = append(*rows, parent)

	sel, ok := g.Node.First(selSelectCluster + " " + selSelectTag)
	if !ok {
		return parentRowID
	}
	for _, opt := range sel.Find(selSelectOpt) {
		label := opt.Text()
		value := opt.Attr("value")
		if value == "" {
			value = slugify(label)
		}
		child := w.row(serviceID, &parentRowID, models.TypeDropdown, parentSlug+"_"+slugify(label), label, order)
		child.OptionValue = &value
		if opt.HasAttr("selected") {
			child.DefaultValue = strPtr(value)
		}
		*rows = append(*rows, child)
	}
	return parentRowID
}

// row builds the common shell of an option row and advances the cursor.
func (w *Writer) row(serviceID int64, parentID *int64, optionType, name, label string, order *int) models.OptionRow {
	now := time.Now()
	if w.Now != nil {
		now = w.Now()
	}
	r := models.OptionRow{
		OptionID:       w.IDs.Next(),
		ServiceID:      serviceID,
		ParentOptionID: parentID,
		OptionType:     optionType,
		OptionName:     name,
		OptionLabel:    label,
		PriceModifier:  decimal.Zero.Round(2),
		DisplayOrder:   *order,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	*order++
	return r
}

// slugify builds a machine name from display text: lower case, colons
// stripped, percent spelled out, spaces collapsed to underscores.
func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ":", "")
	s = strings.ReplaceAll(s, "%", " percent")
	return strings.Join(strings.Fields(s), "_")
}

func strPtr(s string) *string { return &s }
