package skycoach

import (
	"strings"

	"github.com/lukman83/boostgg-scrap/internal/models"
)

// Normalize canonicalizes option_type values into the persisted vocabulary:
// the "_value" suffix carried by numeric children is stripped and button
// groups collapse into radio. Applied once to a whole batch before
// persistence; re-applying is a no-op. Input rows are not mutated.
func Normalize(rows []models.OptionRow) []models.OptionRow {
	out := make([]models.OptionRow, len(rows))
	for i, r := range rows {
		t := strings.TrimSpace(r.OptionType)
		t = strings.TrimSuffix(t, "_value")
		if t == "button" || t == "buttons" {
			t = models.TypeRadio
		}
		r.OptionType = t
		out[i] = r
	}
	return out
}
