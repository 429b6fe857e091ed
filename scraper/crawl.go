package scraper

import (
	"context"
	"github.com/avicd/go-kifu/model"
	"golang.org/x/sync/errgroup"
	"sync"
)

type Fetcher interface {
	FetchPlayer(ctx context.Context, id int64) (*model.PlayerPage, error)
}

// Sink receives the crawled pages one at a time, never concurrently.
type Sink func(ctx context.Context, page *model.PlayerPage) error

type Crawler struct {
	Fetcher Fetcher
	// MaxPlayers bounds the number of fetched pages; 0 means no bound.
	MaxPlayers int
	// MaxDepth bounds the distance from the seeds; 0 means no bound.
	MaxDepth    int
	Concurrency int
	Metrics     *Metrics
}

type CrawlStats struct {
	Fetched int
	Failed  int
	Depth   int
}

func (it *Crawler) count(status string) {
	if it.Metrics != nil {
		it.Metrics.Pages.WithLabelValues(status).Inc()
	}
}

// Run crawls breadth first from seeds, following the opponents of every
// fetched player. A page that fails to load is logged and skipped; an error
// from sink or the context stops the crawl.
func (it *Crawler) Run(ctx context.Context, seeds []int64, sink Sink) (CrawlStats, error) {
	var stats CrawlStats
	limit := it.Concurrency
	if limit < 1 {
		limit = 1
	}
	visited := map[int64]bool{}
	var frontier []int64
	enqueue := func(ids []int64) {
		for _, id := range ids {
			if id > 0 && !visited[id] {
				visited[id] = true
				frontier = append(frontier, id)
			}
		}
	}
	enqueue(seeds)
	for depth := 0; len(frontier) > 0; depth++ {
		if it.MaxDepth > 0 && depth >= it.MaxDepth {
			break
		}
		level := frontier
		frontier = nil
		if it.MaxPlayers > 0 {
			left := it.MaxPlayers - stats.Fetched - stats.Failed
			if left <= 0 {
				break
			}
			if len(level) > left {
				level = level[:left]
			}
		}
		stats.Depth = depth + 1
		pages, failed, err := it.fetchLevel(ctx, level, limit)
		stats.Failed += failed
		if err != nil {
			return stats, err
		}
		for _, page := range pages {
			if page == nil {
				continue
			}
			stats.Fetched++
			if err := sink(ctx, page); err != nil {
				return stats, err
			}
			enqueue(page.OpponentIds())
		}
		log.Infof("depth %d: %d pages, %d queued", depth, len(level), len(frontier))
	}
	return stats, nil
}

func (it *Crawler) fetchLevel(ctx context.Context, ids []int64, limit int) ([]*model.PlayerPage, int, error) {
	pages := make([]*model.PlayerPage, len(ids))
	var mu sync.Mutex
	failed := 0
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			page, err := it.Fetcher.FetchPlayer(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warnf("player %d: %v", id, err)
				it.count("failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			it.count("ok")
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, failed, err
	}
	return pages, failed, nil
}
