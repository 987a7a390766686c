package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the structural category of an option group as seen in the UI.
type Kind int

const (
	KindUnknown Kind = iota
	KindSlider       // single-knob numeric input
	KindRange        // dual-knob from/to pair
	KindRadio
	KindButtons // button bar, persisted as radio
	KindCheckbox
	KindSelect
)

func (k Kind) String() string {
	switch k {
	case KindSlider:
		return "slider"
	case KindRange:
		return "range"
	case KindRadio:
		return "radio"
	case KindButtons:
		return "buttons"
	case KindCheckbox:
		return "checkbox"
	case KindSelect:
		return "select"
	default:
		return "unknown"
	}
}

// Persisted option_type vocabulary. Only these five values may reach storage;
// skycoach.Normalize maps everything the writer emits onto them.
const (
	TypeSlider   = "slider"
	TypeRange    = "range"
	TypeRadio    = "radio"
	TypeCheckbox = "checkbox"
	TypeDropdown = "dropdown"
)

// Service is one configurable product page.
type Service struct {
	ServiceID    int64            `json:"service_id"`
	GameID       int64            `json:"game_id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	PricePerUnit decimal.Decimal  `json:"price_per_unit"`
	SalePrice    *decimal.Decimal `json:"sale_price,omitempty"`
	IconURL      string           `json:"icon_url,omitempty"`
	Category     string           `json:"category,omitempty"`
	GameName     string           `json:"game_name,omitempty"`
	URL          string           `json:"url,omitempty"`
}

// OptionRow is the unit of extraction and persistence. OptionID and
// ParentOptionID are extraction-scoped; the importer remaps them onto
// database-assigned ids. Rows are immutable once emitted by the tree writer.
type OptionRow struct {
	OptionID       int64           `json:"option_id"`
	ServiceID      int64           `json:"service_id"`
	ParentOptionID *int64          `json:"parent_option_id,omitempty"`
	OptionType     string          `json:"option_type"`
	OptionName     string          `json:"option_name"`
	OptionLabel    string          `json:"option_label"`
	OptionValue    *string         `json:"option_value,omitempty"`
	PriceModifier  decimal.Decimal `json:"price_modifier"`
	MinValue       *int            `json:"min_value,omitempty"`
	MaxValue       *int            `json:"max_value,omitempty"`
	DefaultValue   *string         `json:"default_value,omitempty"`
	IsRequired     bool            `json:"is_required"`
	DisplayOrder   int             `json:"display_order"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// IsParent reports whether the row is a group row (an axis itself) rather
// than a choice/value row.
func (r OptionRow) IsParent() bool {
	return r.ParentOptionID == nil
}

// Batch is the ordered set of option rows produced by one extraction pass
// over one page, plus the non-fatal conditions encountered while building it.
type Batch struct {
	Service     Service     `json:"service"`
	Rows        []OptionRow `json:"rows"`
	Diagnostics []string    `json:"diagnostics,omitempty"`
}
