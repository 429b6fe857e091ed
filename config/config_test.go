package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("KIFU_SITE_URL", "https://go.example")
	t.Setenv("KIFU_SEEDS", "12,34")
	t.Setenv("KIFU_CACHE_TTL", "10m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.DatabaseDriver)
	assert.Equal(t, "kifu.db", cfg.DatabaseDSN)
	assert.Equal(t, []int64{12, 34}, cfg.Seeds)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "0 3 * * *", cfg.Schedule)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("KIFU_SITE_URL", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateSite())

	t.Setenv("KIFU_DATABASE_DRIVER", "oracle")
	_, err = Load()
	assert.Error(t, err)
	assert.Panics(t, func() { MustLoad() })

	t.Setenv("KIFU_DATABASE_DRIVER", "sqlite3")
	t.Setenv("KIFU_MAX_PLAYERS", "many")
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DatabaseDriver: "pgx",
			DatabaseDSN:    "postgres://localhost/kifu",
			SiteURL:        "https://go.example",
			Concurrency:    1,
			Schedule:       "@every 6h",
		}
	}
	require.NoError(t, valid().Validate())
	require.NoError(t, valid().ValidateSite())

	cases := map[string]func(c *Config){
		"driver":      func(c *Config) { c.DatabaseDriver = "oracle" },
		"dsn":         func(c *Config) { c.DatabaseDSN = "" },
		"concurrency": func(c *Config) { c.Concurrency = 0 },
		"limits":      func(c *Config) { c.MaxPlayers = -1 },
		"schedule":    func(c *Config) { c.Schedule = "every day" },
	}
	for name, mutate := range cases {
		cfg := valid()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestValidateSite(t *testing.T) {
	for _, site := range []string{"", "go.example", "/player", "://"} {
		assert.Error(t, (&Config{SiteURL: site}).ValidateSite(), site)
	}
}
