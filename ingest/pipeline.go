package ingest

import (
	"context"
	"errors"
	"fmt"
	"github.com/avicd/go-kifu/logger"
	"github.com/avicd/go-kifu/model"
	"github.com/avicd/go-kifu/scraper"
	"github.com/avicd/go-kifu/store"
	"time"
)

var log = logger.Scope("ingest")

var ErrNoSeeds = errors.New("ingest: no seed players")

type Pipeline struct {
	Store   *store.Store
	Crawler *scraper.Crawler
	// Seeds is used when Run gets none.
	Seeds []int64
	// TopSeeds adds that many of the strongest stored players to the seeds.
	TopSeeds int
}

type Report struct {
	scraper.CrawlStats
	Saved   int
	Games   int
	Started time.Time
	Elapsed time.Duration
}

func (it *Pipeline) seeds(seeds []int64) ([]int64, error) {
	if len(seeds) < 1 {
		seeds = append(seeds, it.Seeds...)
	}
	if it.TopSeeds > 0 {
		top, err := it.Store.Players.Top(it.TopSeeds)
		if err != nil {
			return nil, err
		}
		for _, p := range top {
			seeds = append(seeds, p.Id)
		}
	}
	if len(seeds) < 1 {
		return nil, ErrNoSeeds
	}
	return seeds, nil
}

// Run crawls from seeds and stores every page as it arrives.
func (it *Pipeline) Run(ctx context.Context, seeds []int64) (Report, error) {
	report := Report{Started: time.Now()}
	seeds, err := it.seeds(seeds)
	if err != nil {
		return report, err
	}
	log.Infof("crawl from %d seeds", len(seeds))
	report.CrawlStats, err = it.Crawler.Run(ctx, seeds, func(ctx context.Context, page *model.PlayerPage) error {
		if err := it.Store.Ingest(page); err != nil {
			return fmt.Errorf("ingest player %d: %w", page.Player.Id, err)
		}
		report.Saved++
		report.Games += len(page.Games)
		return nil
	})
	report.Elapsed = time.Since(report.Started)
	if err != nil {
		return report, err
	}
	log.Infof("saved %d players and %d games in %s (%d failed)", report.Saved, report.Games, report.Elapsed, report.Failed)
	return report, nil
}

// Scrape fetches and stores a single player.
func (it *Pipeline) Scrape(ctx context.Context, id int64) (*model.PlayerPage, error) {
	page, err := it.Crawler.Fetcher.FetchPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := it.Store.Ingest(page); err != nil {
		return nil, fmt.Errorf("ingest player %d: %w", id, err)
	}
	return page, nil
}
