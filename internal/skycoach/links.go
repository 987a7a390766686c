package skycoach

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lukman83/boostgg-scrap/internal/httputil"
)

// Candidate anchors on listing pages. Tried in order; results merge with
// duplicates removed.
var productLinkSelectors = []string{
	`a[href*="/products/"]`,
	`.product-card a`,
	`.offer-card a`,
	`a[href*="/boost/products/"]`,
}

// LinkDiscoverer finds product page URLs from category listing pages.
type LinkDiscoverer struct {
	Client  *http.Client
	BaseURL string
	Retries int
}

// ProductLinks fetches one listing page and returns its product URLs,
// absolutized and deduplicated, in document order.
func (d *LinkDiscoverer) ProductLinks(ctx context.Context, listingURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}
	for key, vals := range httputil.BrowserHeaders() {
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}

	resp, err := httputil.DoWithRetry(d.Client, req, d.Retries)
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", listingURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listing %s: status %d", listingURL, resp.StatusCode)
	}

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read listing %s: %w", listingURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", listingURL, err)
	}

	base := d.BaseURL
	if base == "" {
		if u, err := url.Parse(listingURL); err == nil {
			base = u.Scheme + "://" + u.Host
		}
	}

	seen := make(map[string]bool)
	var links []string
	for _, sel := range productLinkSelectors {
		doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok {
				return
			}
			href = strings.TrimSpace(href)
			if strings.HasPrefix(href, "/") {
				href = base + href
			}
			if !strings.Contains(href, "/products/") || seen[href] {
				return
			}
			seen[href] = true
			links = append(links, href)
		})
	}
	return links, nil
}

// ListingLinksFromCSVDir reads every *.csv under dir and collects the values
// of each file's Link column. Files without that column are skipped.
func ListingLinksFromCSVDir(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		records, err := r.ReadAll()
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if len(records) == 0 {
			continue
		}

		linkCol := -1
		for i, h := range records[0] {
			if strings.EqualFold(strings.TrimSpace(h), "Link") {
				linkCol = i
				break
			}
		}
		if linkCol < 0 {
			continue
		}
		for _, rec := range records[1:] {
			if linkCol >= len(rec) {
				continue
			}
			link := strings.TrimSpace(rec[linkCol])
			if link == "" || seen[link] {
				continue
			}
			seen[link] = true
			links = append(links, link)
		}
	}
	return links, nil
}
