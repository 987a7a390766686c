package skycoach

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/lukman83/boostgg-scrap/internal/dom"
	"github.com/lukman83/boostgg-scrap/internal/models"
	"github.com/lukman83/boostgg-scrap/internal/platform"
	"github.com/lukman83/boostgg-scrap/internal/stealth"
)

// Scraper extracts service and option schemas from skycoach.gg product pages.
// It implements platform.Scraper.
type Scraper struct {
	ServiceIDs IDSource
	GameID     int64
	Extractor  *Extractor
	Links      *LinkDiscoverer

	Limiter     *rate.Limiter
	Delay       *stealth.HumanDelay
	LauncherURL string
}

var _ platform.Scraper = (*Scraper)(nil)

// ScrapeProduct renders one product page and returns its full batch: service
// metadata, the option tree in canonical form, and any diagnostics raised
// along the way.
func (s *Scraper) ScrapeProduct(ctx context.Context, url string) (*models.Batch, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}
	if s.Delay != nil {
		if err := s.Delay.Wait(ctx); err != nil {
			return nil, err
		}
	}

	platform.ReportProgress(ctx, "opening "+url)
	session, err := OpenPage(ctx, url, s.LauncherURL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	defer session.Close()

	// Metadata comes from a frozen parse of the rendered markup: cheaper
	// than round-tripping the live page per selector, and interaction-free.
	html, err := session.HTML()
	if err != nil {
		return nil, err
	}
	doc, err := dom.Parse(html)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	svc, err := ExtractService(doc, url)
	if err != nil {
		return nil, err
	}
	svc.ServiceID = s.ServiceIDs.Next()
	svc.GameID = s.GameID

	rows, diags, err := s.Extractor.Extract(ctx, session.Root(), svc.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("extract options from %s: %w", url, err)
	}

	return &models.Batch{
		Service:     svc,
		Rows:        Normalize(rows),
		Diagnostics: diags,
	}, nil
}

// DiscoverProducts lists product URLs linked from a listing page.
func (s *Scraper) DiscoverProducts(ctx context.Context, listingURL string, opts platform.DiscoverOpts) ([]string, error) {
	links, err := s.Links.ProductLinks(ctx, listingURL)
	if err != nil {
		return nil, err
	}
	if opts.Limit > 0 && len(links) > opts.Limit {
		links = links[:opts.Limit]
	}
	return links, nil
}
