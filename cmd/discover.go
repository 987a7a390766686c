package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lukman83/boostgg-scrap/internal/platform"
	"github.com/lukman83/boostgg-scrap/internal/skycoach"
	"github.com/lukman83/boostgg-scrap/internal/ui"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [listing-url...]",
	Short: "Discover product page URLs from listing pages",
	Long:  "Collects product links from the given listing URLs, or from the listing CSVs in the games directory when no URL is given.",
	RunE:  runDiscover,
}

func init() {
	discoverCmd.Flags().String("games-dir", "", "Directory of listing CSVs with a Link column")
	discoverCmd.Flags().Int("limit", 0, "Maximum links per listing page (0 = all)")
	discoverCmd.Flags().String("format", "lines", "Output format: lines, json")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if err := initPlatforms(); err != nil {
		return err
	}

	gamesDir, _ := cmd.Flags().GetString("games-dir")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	listings := args
	if len(listings) == 0 {
		if gamesDir == "" {
			gamesDir = cfg.GamesDir
		}
		var err error
		listings, err = skycoach.ListingLinksFromCSVDir(gamesDir)
		if err != nil {
			return fmt.Errorf("read listing CSVs: %w", err)
		}
		if len(listings) == 0 {
			return fmt.Errorf("no listing links found in %s", gamesDir)
		}
	}

	scraper, err := platform.Get("skycoach")
	if err != nil {
		return err
	}

	spin := ui.NewSpinner()
	spin.Start("Discovering product links...")
	ctx := platform.WithProgress(context.Background(), spin.Update)

	seen := make(map[string]bool)
	var links []string
	for _, listing := range listings {
		spin.Update("Discovering " + listing)
		found, err := scraper.DiscoverProducts(ctx, listing, platform.DiscoverOpts{Limit: limit})
		if err != nil {
			spin.Stop()
			return fmt.Errorf("discover %s: %w", listing, err)
		}
		for _, l := range found {
			if seen[l] {
				continue
			}
			seen[l] = true
			links = append(links, l)
		}
	}
	spin.Stop()

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(links)
	default:
		for _, l := range links {
			fmt.Println(l)
		}
	}
	return nil
}
