package platform

import (
	"context"

	"github.com/lukman83/boostgg-scrap/internal/models"
)

// DiscoverOpts bounds a listing crawl.
type DiscoverOpts struct {
	Limit int
}

// Scraper is one supported storefront. Implementations own their transport,
// browser session and extraction pipeline; callers only see batches.
type Scraper interface {
	// ScrapeProduct extracts the full service and option schema of one
	// product page.
	ScrapeProduct(ctx context.Context, url string) (*models.Batch, error)

	// DiscoverProducts lists product page URLs linked from a listing page.
	DiscoverProducts(ctx context.Context, listingURL string, opts DiscoverOpts) ([]string, error)
}
