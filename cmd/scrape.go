package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lukman83/boostgg-scrap/internal/csvstore"
	"github.com/lukman83/boostgg-scrap/internal/models"
	"github.com/lukman83/boostgg-scrap/internal/platform"
	"github.com/lukman83/boostgg-scrap/internal/skycoach"
	"github.com/lukman83/boostgg-scrap/internal/ui"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [product-url...]",
	Short: "Extract option schemas from product pages into CSV files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScrape,
}

func init() {
	scrapeCmd.Flags().Bool("reset", false, "Truncate the CSV files before scraping")
	scrapeCmd.Flags().String("format", "table", "Output format: table, json")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	cs, err := newCSVStore()
	if err != nil {
		return err
	}
	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		if err := cs.Reset(); err != nil {
			return fmt.Errorf("reset CSV files: %w", err)
		}
	}

	scraper, err := buildScraper(cs)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Scraping %d pages...", len(args)))
	ctx := platform.WithProgress(context.Background(), spin.Update)

	batches, failed := scrapeAll(ctx, scraper, cs, args)
	spin.Stop()

	for url, err := range failed {
		log.Printf("scrape %s failed: %v", url, err)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(batches); err != nil {
			return err
		}
	default:
		printBatchesTable(batches)
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d pages failed", len(failed), len(args))
	}
	return nil
}

// scrapeAll extracts the given product pages with bounded concurrency. Each
// page owns an exclusive browser session; only the CSV append is serialized.
// Duplicate URLs are scraped once.
func scrapeAll(ctx context.Context, scraper *skycoach.Scraper, cs *csvstore.Store, urls []string) ([]*models.Batch, map[string]error) {
	seen := make(map[string]bool)
	var unique []string
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		unique = append(unique, u)
	}

	var (
		mu      sync.Mutex
		batches []*models.Batch
		failed  = make(map[string]error)
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrent)
	for _, url := range unique {
		g.Go(func() error {
			batch, err := scraper.ScrapeProduct(ctx, url)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[url] = err
				return nil
			}
			if err := cs.AppendService(batch.Service); err != nil {
				failed[url] = err
				return nil
			}
			if err := cs.AppendOptions(batch.Rows); err != nil {
				failed[url] = err
				return nil
			}
			batches = append(batches, batch)
			return nil
		})
	}
	g.Wait()
	return batches, failed
}
