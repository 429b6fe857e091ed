package ingest

import (
	"context"
	"fmt"
	"github.com/avicd/go-kifu/model"
	"github.com/avicd/go-kifu/scraper"
	"github.com/avicd/go-kifu/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type game struct {
	id     int64
	black  int64
	white  int64
	result string
}

var (
	names = map[int64]string{1: "Shin Jinseo", 2: "Ke Jie", 3: "Iyama Yuta"}
	games = []game{
		{10, 1, 2, "B+R"},
		{11, 2, 3, "W+0.5"},
		{12, 3, 1, "W+T"},
	}
)

func page(id int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<h1 class="player-name">%s</h1><span class="player-rank">9p</span><table class="games"><tbody>`, names[id])
	for _, g := range games {
		if g.black != id && g.white != id {
			continue
		}
		fmt.Fprintf(&b, `<tr><td><a class="game" href="/game/%d">game</a></td><td class="date">2024-01-%02d</td>
<td class="black"><a href="/player/%d">%s</a></td><td class="white"><a href="/player/%d">%s</a></td>
<td class="result">%s</td></tr>`, g.id, g.id, g.black, names[g.black], g.white, names[g.white], g.result)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := scraper.IdOf(r.URL.Path)
		if _, known := names[id]; !ok || !known {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(page(id)))
	}))
	t.Cleanup(srv.Close)
	client, err := scraper.NewClient(scraper.ClientOptions{BaseURL: srv.URL})
	require.NoError(t, err)

	st, err := store.Open("sqlite3", filepath.Join(t.TempDir(), "kifu.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return &Pipeline{Store: st, Crawler: &scraper.Crawler{Fetcher: client, Concurrency: 2}}
}

func TestRun(t *testing.T) {
	pipeline := newPipeline(t)
	report, err := pipeline.Run(context.Background(), []int64{1})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Fetched)
	assert.Equal(t, 3, report.Saved)
	assert.Equal(t, 6, report.Games)

	stats, err := pipeline.Store.Stats()
	require.NoError(t, err)
	assert.Equal(t, store.Stats{Players: 3, Games: 3}, stats)

	player, err := pipeline.Store.Players.FindById(3)
	require.NoError(t, err)
	assert.Equal(t, "Iyama Yuta", player.Name)
	assert.Equal(t, 1, player.Wins)
	assert.Equal(t, 1, player.Losses)

	_, err = pipeline.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSeeds)

	pipeline.TopSeeds = 1
	report, err = pipeline.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Fetched)
}

func TestScrape(t *testing.T) {
	pipeline := newPipeline(t)
	page, err := pipeline.Scrape(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, page.Games, 2)

	stats, err := pipeline.Store.Stats()
	require.NoError(t, err)
	assert.Equal(t, store.Stats{Players: 3, Games: 2}, stats)

	_, err = pipeline.Scrape(context.Background(), 9)
	assert.ErrorIs(t, err, scraper.ErrNotFound)
}

func TestScheduler(t *testing.T) {
	pipeline := newPipeline(t)
	pipeline.Seeds = []int64{2}
	_, err := NewScheduler(pipeline, "not a schedule", 0)
	assert.Error(t, err)

	sched, err := NewScheduler(pipeline, "@every 1h", time.Minute)
	require.NoError(t, err)
	sched.Start()
	assert.WithinDuration(t, time.Now().Add(time.Hour), sched.Next(), time.Minute)

	report, err := sched.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Saved)
	status := sched.Status()
	assert.Equal(t, 1, status.Runs)
	assert.NoError(t, status.Err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, sched.Stop(ctx))
}

type blockingFetcher struct {
	started  chan struct{}
	released chan struct{}
	start    sync.Once
	release  sync.Once
}

func (it *blockingFetcher) FetchPlayer(ctx context.Context, id int64) (*model.PlayerPage, error) {
	it.start.Do(func() { close(it.started) })
	<-ctx.Done()
	it.release.Do(func() { close(it.released) })
	return nil, ctx.Err()
}

func TestSchedulerStopCancelsRun(t *testing.T) {
	fetcher := &blockingFetcher{started: make(chan struct{}), released: make(chan struct{})}
	pipeline := &Pipeline{Crawler: &scraper.Crawler{Fetcher: fetcher}, Seeds: []int64{1}}
	sched, err := NewScheduler(pipeline, "@every 1s", 0)
	require.NoError(t, err)
	sched.Start()

	select {
	case <-fetcher.started:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled run did not start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, sched.Stop(ctx))
	select {
	case <-fetcher.released:
	default:
		t.Fatal("running crawl was not canceled")
	}
	status := sched.Status()
	assert.Equal(t, 1, status.Runs)
	assert.ErrorIs(t, status.Err, context.Canceled)
}

func TestSchedulerRecover(t *testing.T) {
	pipeline := &Pipeline{Seeds: []int64{1}}
	sched, err := NewScheduler(pipeline, "@every 1h", 0)
	require.NoError(t, err)
	entries := sched.cron.Entries()
	require.Len(t, entries, 1)
	assert.NotPanics(t, entries[0].WrappedJob.Run)
	assert.Equal(t, 0, sched.Status().Runs)
	require.NoError(t, sched.Stop(context.Background()))
}
