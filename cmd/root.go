package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/lukman83/boostgg-scrap/config"
	"github.com/lukman83/boostgg-scrap/internal/csvstore"
	"github.com/lukman83/boostgg-scrap/internal/httputil"
	"github.com/lukman83/boostgg-scrap/internal/platform"
	"github.com/lukman83/boostgg-scrap/internal/seq"
	"github.com/lukman83/boostgg-scrap/internal/skycoach"
	"github.com/lukman83/boostgg-scrap/internal/stealth"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "boostgg",
	Short: "BoostGG Scrap - boosting-service option-schema scraper & importer",
	Long:  "A Go-based CLI tool and MCP server that extracts hierarchical option schemas from boosting-service product pages and imports them into MySQL.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("delay-profile", "normal", "Delay profile: cautious, normal, aggressive")
	rootCmd.PersistentFlags().Bool("respect-robots", true, "Respect robots.txt rules")
	rootCmd.PersistentFlags().String("trigger-label", "", "Label of the radio axis that reveals conditional options")
	rootCmd.PersistentFlags().String("services-csv", "", "Path to the services CSV file")
	rootCmd.PersistentFlags().String("options-csv", "", "Path to the options CSV file")
	rootCmd.PersistentFlags().String("dsn", "", "MySQL DSN (overrides BOOSTGG_MYSQL_DSN)")
	rootCmd.PersistentFlags().Int64("game-id", 0, "Collection id services are imported under")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	// Override from flags
	if v, _ := rootCmd.PersistentFlags().GetString("delay-profile"); v != "" {
		cfg.DelayProfile = v
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("respect-robots"); !v {
		cfg.RespectRobots = false
	}
	if v, _ := rootCmd.PersistentFlags().GetString("trigger-label"); v != "" {
		cfg.TriggerLabel = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("services-csv"); v != "" {
		cfg.ServicesCSV = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("options-csv"); v != "" {
		cfg.OptionsCSV = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("dsn"); v != "" {
		cfg.MySQLDSN = v
	}
	if v, _ := rootCmd.PersistentFlags().GetInt64("game-id"); v != 0 {
		cfg.GameID = v
	}
}

// buildHTTPClient creates the stealth-wrapped HTTP client for listing-page
// fetches. Product pages go through the headless browser instead.
func buildHTTPClient() *http.Client {
	delay := stealth.NewHumanDelay(stealth.DelayProfile(cfg.DelayProfile))
	limiter := rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst)

	baseTransport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}

	robots := stealth.NewRobotsChecker(&http.Client{}, cfg.RespectRobots)

	transport := &stealth.StealthTransport{
		Base:        baseTransport,
		Headers:     httputil.BrowserHeaders(),
		Robots:      robots,
		Delay:       delay,
		RateLimiter: limiter,
	}

	return &http.Client{Transport: transport}
}

// newCSVStore returns the interchange-file store with headers ensured.
func newCSVStore() (*csvstore.Store, error) {
	cs := &csvstore.Store{
		ServicesPath: cfg.ServicesCSV,
		OptionsPath:  cfg.OptionsCSV,
	}
	if err := cs.EnsureFiles(); err != nil {
		return nil, fmt.Errorf("prepare CSV files: %w", err)
	}
	return cs, nil
}

// buildScraper wires the full extraction pipeline, seeding both id sequences
// from what is already on disk so appended rows continue the id spaces.
func buildScraper(cs *csvstore.Store) (*skycoach.Scraper, error) {
	maxService, err := cs.MaxServiceID()
	if err != nil {
		return nil, fmt.Errorf("seed service ids: %w", err)
	}
	maxOption, err := cs.MaxOptionID()
	if err != nil {
		return nil, fmt.Errorf("seed option ids: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst)
	return &skycoach.Scraper{
		ServiceIDs: seq.New(maxService),
		GameID:     cfg.GameID,
		Extractor: &skycoach.Extractor{
			Writer:       &skycoach.Writer{IDs: seq.New(maxOption)},
			TriggerLabel: cfg.TriggerLabel,
		},
		Links: &skycoach.LinkDiscoverer{
			Client:  buildHTTPClient(),
			BaseURL: cfg.BaseURL,
			Retries: 2,
		},
		Limiter:     limiter,
		Delay:       stealth.NewHumanDelay(stealth.DelayProfile(cfg.DelayProfile)),
		LauncherURL: cfg.LauncherURL,
	}, nil
}

// initPlatforms registers all available platform scrapers.
func initPlatforms() error {
	cs, err := newCSVStore()
	if err != nil {
		return err
	}
	scraper, err := buildScraper(cs)
	if err != nil {
		return err
	}
	platform.Register("skycoach", scraper)
	return nil
}
