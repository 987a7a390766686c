package skycoach

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ModifierKind says how a parsed price modifier applies to the base price.
type ModifierKind int

const (
	Absolute ModifierKind = iota // fixed currency amount
	Percent                      // percentage of the base price
)

// Modifier is a parsed price adjustment attached to a single choice.
type Modifier struct {
	Kind  ModifierKind
	Value decimal.Decimal
}

// ParseModifier parses option price text like "+6,43 €", "Free" or "+50%".
// Empty text means the choice carries no modifier at all (nil); "Free" and
// "Basic" mean an explicit zero charge. Unparsable input yields nil rather
// than an error: a missing modifier never blocks extraction.
func ParseModifier(text string) *Modifier {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil
	}
	switch strings.ToLower(t) {
	case "free", "basic":
		return &Modifier{Kind: Absolute, Value: decimal.Zero.Round(2)}
	}

	t = strings.TrimSpace(strings.TrimPrefix(t, "+"))

	if strings.HasSuffix(t, "%") {
		num := strings.ReplaceAll(stripNonNumeric(strings.TrimSuffix(t, "%")), ",", ".")
		v, err := decimal.NewFromString(num)
		if err != nil {
			return nil
		}
		return &Modifier{Kind: Percent, Value: v}
	}

	v, ok := parseAmount(t)
	if !ok {
		return nil
	}
	return &Modifier{Kind: Absolute, Value: v}
}

// ParseCurrency parses a top-level price like "54,99 €" into a decimal
// amount. "Free"/"Basic"/empty all mean zero.
func ParseCurrency(text string) (decimal.Decimal, bool) {
	t := strings.TrimSpace(text)
	if t == "" {
		return decimal.Zero, false
	}
	switch strings.ToLower(t) {
	case "free", "basic":
		return decimal.Zero.Round(2), true
	}
	return parseAmount(t)
}

// parseAmount strips currency symbols and resolves the comma ambiguity:
// with both comma and dot present the comma is a thousands separator,
// with comma alone it is the decimal separator.
func parseAmount(t string) (decimal.Decimal, bool) {
	num := stripNonNumeric(t)
	if strings.Contains(num, ",") && strings.Contains(num, ".") {
		num = strings.ReplaceAll(num, ",", "")
	} else {
		num = strings.ReplaceAll(num, ",", ".")
	}
	if num == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, false
	}
	return v.Round(2), true
}

// stripNonNumeric keeps only digits, comma, dot and minus.
func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
