package skycoach

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lukman83/boostgg-scrap/internal/dom"
	"github.com/lukman83/boostgg-scrap/internal/models"
)

// Page-level metadata selectors, separate from the configurator widget.
const (
	selServiceName  = ".game-header h1"
	selServiceDesc  = ".product-info-section__html"
	selOgImage      = "meta[property='og:image']"
	selBasePrice    = ".payment-summary__price-column-total"
	selNameFallback = "h1"
)

// ErrNoServiceName marks a page without a recognizable product heading; such
// pages are skipped rather than imported under an empty name.
var ErrNoServiceName = fmt.Errorf("skycoach: product page has no service name")

// URL path segment → game name. Unmatched paths fall through to "Unknown".
var categoryByPath = []struct {
	segment string
	game    string
}{
	{"/destiny-boost/", "Destiny 2"},
	{"/wow-boost/", "World of Warcraft"},
	{"/diablo-4-boost/", "Diablo 4"},
}

// ExtractService reads the page-level product metadata: name, description,
// icon, base price and game category. Everything except the name is
// best-effort.
func ExtractService(doc dom.Node, pageURL string) (models.Service, error) {
	var svc models.Service
	svc.URL = pageURL

	name, ok := doc.First(selServiceName)
	if !ok {
		name, ok = doc.First(selNameFallback)
	}
	if !ok || strings.TrimSpace(name.Text()) == "" {
		return svc, fmt.Errorf("%w: %s", ErrNoServiceName, pageURL)
	}
	svc.Name = strings.TrimSpace(name.Text())

	if desc, ok := doc.First(selServiceDesc); ok {
		svc.Description = strings.TrimSpace(desc.Text())
	}
	if img, ok := doc.First(selOgImage); ok {
		svc.IconURL = img.Attr("content")
	}

	svc.PricePerUnit = decimal.Zero.Round(2)
	if price, ok := doc.First(selBasePrice); ok {
		if v, ok := ParseCurrency(price.Text()); ok {
			svc.PricePerUnit = v
		}
	}

	svc.GameName = gameFromURL(pageURL)
	svc.Category = svc.GameName
	return svc, nil
}

func gameFromURL(pageURL string) string {
	for _, c := range categoryByPath {
		if strings.Contains(pageURL, c.segment) {
			return c.game
		}
	}
	return "Unknown"
}
