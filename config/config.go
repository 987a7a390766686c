package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Site
	BaseURL      string
	GameID       int64
	TriggerLabel string

	// Storage
	MySQLDSN     string
	ServicesCSV  string
	OptionsCSV   string
	GamesDir     string // directory of listing CSVs with a Link column
	ReuseByName  bool

	// Politeness
	RespectRobots bool
	DelayProfile  string // "cautious", "normal", "aggressive"
	RatePerSecond float64
	RateBurst     int
	MaxConcurrent int

	// Browser
	LauncherURL string // optional remote rod launcher
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "https://skycoach.gg",
		GameID:        21,
		TriggerLabel:  "Difficulty",
		ServicesCSV:   "services.csv",
		OptionsCSV:    "service_options.csv",
		GamesDir:      "games",
		ReuseByName:   true,
		RespectRobots: true,
		DelayProfile:  "normal",
		RatePerSecond: 1.0,
		RateBurst:     2,
		MaxConcurrent: 3,
	}
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
func (c *Config) LoadFromEnv() {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	if v := os.Getenv("BOOSTGG_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("BOOSTGG_GAME_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.GameID = n
		}
	}
	if v := os.Getenv("BOOSTGG_TRIGGER_LABEL"); v != "" {
		c.TriggerLabel = v
	}
	if v := os.Getenv("BOOSTGG_MYSQL_DSN"); v != "" {
		c.MySQLDSN = v
	}
	if v := os.Getenv("BOOSTGG_SERVICES_CSV"); v != "" {
		c.ServicesCSV = v
	}
	if v := os.Getenv("BOOSTGG_OPTIONS_CSV"); v != "" {
		c.OptionsCSV = v
	}
	if v := os.Getenv("BOOSTGG_GAMES_DIR"); v != "" {
		c.GamesDir = v
	}
	if v := os.Getenv("BOOSTGG_REUSE_BY_NAME"); v == "false" {
		c.ReuseByName = false
	}
	if v := os.Getenv("BOOSTGG_RESPECT_ROBOTS"); v == "false" {
		c.RespectRobots = false
	}
	if v := os.Getenv("BOOSTGG_DELAY_PROFILE"); v != "" {
		c.DelayProfile = v
	}
	if v := os.Getenv("BOOSTGG_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("BOOSTGG_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("BOOSTGG_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrent = n
		}
	}
	if v := os.Getenv("BOOSTGG_LAUNCHER_URL"); v != "" {
		c.LauncherURL = v
	}
}
