package commands

import (
	"context"
	"github.com/avicd/go-kifu/config"
	"github.com/avicd/go-kifu/ingest"
	"github.com/avicd/go-kifu/logger"
	"github.com/avicd/go-kifu/plugin"
	"github.com/avicd/go-kifu/scraper"
	"github.com/avicd/go-kifu/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var log = logger.Scope("kifu")

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

var (
	storeMetrics   = plugin.NewMetrics(registry)
	scraperMetrics = scraper.NewMetrics(registry)
)

func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	storeMetrics.Install(st.Config())
	(&plugin.SlowLog{Threshold: cfg.SlowQuery}).Install(st.Config())
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func newCache(ctx context.Context, cfg *config.Config) (scraper.Cache, func(), error) {
	if cfg.RedisURL == "" {
		return scraper.NewMemoryCache(), func() {}, nil
	}
	cache, err := scraper.NewRedisCache(ctx, cfg.RedisURL, "kifu:page:")
	if err != nil {
		return nil, nil, err
	}
	return cache, func() { cache.Close() }, nil
}

// newPipeline wires client, crawler and store. The returned func releases
// what was opened.
func newPipeline(ctx context.Context, cfg *config.Config) (*ingest.Pipeline, func(), error) {
	if err := cfg.ValidateSite(); err != nil {
		return nil, nil, err
	}
	selectors := scraper.DefaultSelectors()
	if cfg.SelectorsFile != "" {
		var err error
		if selectors, err = scraper.LoadSelectors(cfg.SelectorsFile); err != nil {
			return nil, nil, err
		}
	}
	cache, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := scraper.NewClient(scraper.ClientOptions{
		BaseURL:      cfg.SiteURL,
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.Timeout,
		Retries:      cfg.Retries,
		RetryWait:    cfg.RetryWait,
		RetryMaxWait: cfg.RetryMaxWait,
		Cloudflare:   cfg.Cloudflare,
		Selectors:    selectors,
		Cache:        cache,
		CacheTTL:     cfg.CacheTTL,
		Metrics:      scraperMetrics,
	})
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	pipeline := &ingest.Pipeline{
		Store: st,
		Crawler: &scraper.Crawler{
			Fetcher:     client,
			MaxPlayers:  cfg.MaxPlayers,
			MaxDepth:    cfg.MaxDepth,
			Concurrency: cfg.Concurrency,
			Metrics:     scraperMetrics,
		},
		Seeds:    cfg.Seeds,
		TopSeeds: cfg.TopSeeds,
	}
	return pipeline, func() {
		st.Close()
		closeCache()
	}, nil
}
