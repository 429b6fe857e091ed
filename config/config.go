package config

import (
	"fmt"
	"github.com/avicd/go-kifu/dialect"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"net/url"
	"time"
)

const Prefix = "KIFU"

// Config is read from KIFU_ prefixed environment variables, after loading
// a .env file of the working directory when one exists.
type Config struct {
	// Database
	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"sqlite3"`
	DatabaseDSN    string `envconfig:"DATABASE_DSN" default:"kifu.db"`

	// Site
	SiteURL       string        `envconfig:"SITE_URL"`
	UserAgent     string        `envconfig:"USER_AGENT"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"30s"`
	Retries       int           `envconfig:"RETRIES" default:"3"`
	RetryWait     time.Duration `envconfig:"RETRY_WAIT" default:"1s"`
	RetryMaxWait  time.Duration `envconfig:"RETRY_MAX_WAIT" default:"30s"`
	Cloudflare    bool          `envconfig:"CLOUDFLARE" default:"false"`
	SelectorsFile string        `envconfig:"SELECTORS_FILE"`

	// Cache
	RedisURL string        `envconfig:"REDIS_URL"`
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"6h"`

	// Crawl
	Seeds       []int64 `envconfig:"SEEDS"`
	TopSeeds    int     `envconfig:"TOP_SEEDS" default:"0"`
	MaxPlayers  int     `envconfig:"MAX_PLAYERS" default:"200"`
	MaxDepth    int     `envconfig:"MAX_DEPTH" default:"0"`
	Concurrency int     `envconfig:"CONCURRENCY" default:"4"`

	// Scheduler
	Schedule   string        `envconfig:"SCHEDULE" default:"0 3 * * *"`
	RunTimeout time.Duration `envconfig:"RUN_TIMEOUT" default:"2h"`

	// Monitoring
	MetricsAddr string        `envconfig:"METRICS_ADDR" default:":9090"`
	SlowQuery   time.Duration `envconfig:"SLOW_QUERY" default:"500ms"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) Validate() error {
	if _, ok := dialect.ByDriver(c.DatabaseDriver); !ok {
		return fmt.Errorf("KIFU_DATABASE_DRIVER %q is not supported", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("KIFU_DATABASE_DSN is required")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("KIFU_CONCURRENCY must be at least 1")
	}
	if c.MaxPlayers < 0 || c.MaxDepth < 0 || c.TopSeeds < 0 || c.Retries < 0 {
		return fmt.Errorf("crawl limits must not be negative")
	}
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("KIFU_SCHEDULE: %w", err)
	}
	return nil
}

// ValidateSite checks the settings only needed to scrape.
func (c *Config) ValidateSite() error {
	site, err := url.Parse(c.SiteURL)
	if err != nil || site.Scheme == "" || site.Host == "" {
		return fmt.Errorf("KIFU_SITE_URL must be an absolute URL, got %q", c.SiteURL)
	}
	return nil
}
