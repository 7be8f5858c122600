package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// NBA stats API
	StatsBaseURL string        `envconfig:"NBA_STATS_BASE_URL" default:"https://stats.nba.com/stats"`
	StatsTimeout time.Duration `envconfig:"NBA_STATS_TIMEOUT" default:"30s"`
	StatsRPS     float64       `envconfig:"NBA_STATS_RPS" default:"1.5"`
	StatsBurst   int           `envconfig:"NBA_STATS_BURST" default:"3"`

	// Pinnacle compact-events API
	PinnacleBaseURL    string        `envconfig:"PINNACLE_BASE_URL" default:"https://www.ps3838.com"`
	PinnacleCookie     string        `envconfig:"PINNACLE_COOKIE" default:""`
	PinnacleCookieTTL  time.Duration `envconfig:"PINNACLE_COOKIE_TTL" default:"30m"`
	PinnacleTimeout    time.Duration `envconfig:"PINNACLE_TIMEOUT" default:"20s"`

	// DraftKings sportsbook API
	DraftKingsBaseURL      string        `envconfig:"DRAFTKINGS_BASE_URL" default:"https://sportsbook.draftkings.com"`
	DraftKingsEventGroupID string        `envconfig:"DRAFTKINGS_EVENT_GROUP_ID" default:"42648"`
	DraftKingsTimeout      time.Duration `envconfig:"DRAFTKINGS_TIMEOUT" default:"20s"`

	// Database
	DatabaseHost     string `envconfig:"DB_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DB_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DB_NAME" default:"nba_edge"`
	DatabaseUser     string `envconfig:"DB_USER" default:"nba_edge"`
	DatabasePassword string `envconfig:"DB_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Season the worker operates on, stats.nba.com format
	Season string `envconfig:"SEASON" default:"2024-25"`

	// Scheduler
	EnableScheduler        bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialSyncEnabled     bool   `envconfig:"INITIAL_SYNC_ENABLED" default:"true"`
	NightlyRefreshCron     string `envconfig:"NIGHTLY_REFRESH_CRON" default:"0 4 * * *"`
	LiveGamePollInterval   int    `envconfig:"LIVE_GAME_POLL_INTERVAL" default:"60"`
	OddsPollInterval       int    `envconfig:"ODDS_POLL_INTERVAL" default:"300"`

	// Caching TTL (in seconds)
	CacheTTLTeamStats int `envconfig:"CACHE_TTL_TEAM_STATS" default:"3600"`
	CacheTTLOdds      int `envconfig:"CACHE_TTL_ODDS" default:"300"`
	CacheTTLStandings int `envconfig:"CACHE_TTL_STANDINGS" default:"21600"`

	// Advisor tuning
	AdvisorConfidenceFloor float64 `envconfig:"ADVISOR_CONFIDENCE_FLOOR" default:"0.55"`
	AdvisorKellyMultiplier float64 `envconfig:"ADVISOR_KELLY_MULTIPLIER" default:"0.25"`
	AdvisorKellyCap        float64 `envconfig:"ADVISOR_KELLY_CAP" default:"0.05"`
	AdvisorMaxRetries      int     `envconfig:"ADVISOR_MAX_RETRIES" default:"2"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if present
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}

	if c.StatsRPS <= 0 {
		return fmt.Errorf("NBA_STATS_RPS must be positive")
	}

	if c.AdvisorConfidenceFloor < 0 || c.AdvisorConfidenceFloor > 1 {
		return fmt.Errorf("ADVISOR_CONFIDENCE_FLOOR must be between 0 and 1")
	}

	if c.AdvisorKellyMultiplier <= 0 || c.AdvisorKellyMultiplier > 1 {
		return fmt.Errorf("ADVISOR_KELLY_MULTIPLIER must be in (0, 1]")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or exits on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
