package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lukman83/boostgg-scrap/internal/platform"
	"github.com/lukman83/boostgg-scrap/internal/skycoach"
	"github.com/lukman83/boostgg-scrap/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Discover, scrape and import in one pass",
	Long:  "Walks the games directory for listing links, discovers product pages, scrapes each into the CSV files, then imports everything into MySQL.",
	RunE:  runAll,
}

func init() {
	runCmd.Flags().String("games-dir", "", "Directory of listing CSVs with a Link column")
	runCmd.Flags().Int("limit", 0, "Maximum products per listing page (0 = all)")
	runCmd.Flags().Bool("reset", false, "Truncate the CSV files before scraping")
	runCmd.Flags().Bool("init-schema", false, "Create the tables if they do not exist")
	rootCmd.AddCommand(runCmd)
}

// runAll chains the three phases. Scrape failures are reported but do not
// stop the import of whatever did extract.
func runAll(cmd *cobra.Command, args []string) error {
	if err := initPlatforms(); err != nil {
		return err
	}

	gamesDir, _ := cmd.Flags().GetString("games-dir")
	if gamesDir == "" {
		gamesDir = cfg.GamesDir
	}
	limit, _ := cmd.Flags().GetInt("limit")

	links, err := collectProductLinks(gamesDir, limit)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		return fmt.Errorf("no product links discovered")
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "discovered %d product pages\n", len(links))

	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		if err := scrapeCmd.Flags().Set("reset", "true"); err != nil {
			return err
		}
	}
	if scrapeErr := runScrape(scrapeCmd, links); scrapeErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "scrape finished with failures: %v\n", scrapeErr)
	}

	if initSchema, _ := cmd.Flags().GetBool("init-schema"); initSchema {
		if err := importCmd.Flags().Set("init-schema", "true"); err != nil {
			return err
		}
	}
	return runImport(importCmd, nil)
}

// collectProductLinks reads listing URLs from the games directory and
// resolves each into product page links, deduplicated across listings.
func collectProductLinks(gamesDir string, limit int) ([]string, error) {
	listings, err := skycoach.ListingLinksFromCSVDir(gamesDir)
	if err != nil {
		return nil, fmt.Errorf("read listing CSVs: %w", err)
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("no listing links found in %s", gamesDir)
	}

	scraper, err := platform.Get("skycoach")
	if err != nil {
		return nil, err
	}

	spin := ui.NewSpinner()
	spin.Start("Discovering product links...")
	defer spin.Stop()
	ctx := platform.WithProgress(context.Background(), spin.Update)

	seen := make(map[string]bool)
	var links []string
	for _, listing := range listings {
		spin.Update("Discovering " + listing)
		found, err := scraper.DiscoverProducts(ctx, listing, platform.DiscoverOpts{Limit: limit})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", listing, err)
		}
		for _, l := range found {
			if seen[l] {
				continue
			}
			seen[l] = true
			links = append(links, l)
		}
	}
	return links, nil
}
