package store

import (
	"context"
	"github.com/avicd/go-kifu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open("sqlite3", filepath.Join(t.TempDir(), "kifu.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

var scrapedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixtures(t *testing.T, st *Store) {
	t.Helper()
	for _, p := range []model.Player{
		{Id: 1, Name: "Shin Jinseo", Rank: "9p", Country: "kr", ScrapedAt: scrapedAt},
		{Id: 2, Name: "Ke Jie", Rank: "9p", Country: "cn", ScrapedAt: scrapedAt},
		{Id: 3, Name: "Iyama Yuta", Rank: "9p", Country: "jp", ScrapedAt: scrapedAt},
		{Id: 4, Name: "Amateur Ann", Rank: "3d", Country: "us", ScrapedAt: scrapedAt},
		{Id: 5, Name: "Kyu Ken", Rank: "5k", Country: "us", ScrapedAt: scrapedAt},
	} {
		p := p
		require.NoError(t, st.SavePlayer(&p))
	}
	rows, err := st.SaveGames([]model.Game{
		{Id: 10, BlackId: 1, WhiteId: 2, Result: "B+R", PlayedOn: "2024-01-10", Event: "LG Cup", ScrapedAt: scrapedAt},
		{Id: 11, BlackId: 2, WhiteId: 1, Result: "W+2.5", PlayedOn: "2024-02-10", Event: "LG Cup", ScrapedAt: scrapedAt},
		{Id: 12, BlackId: 3, WhiteId: 1, Result: "B+T", PlayedOn: "2024/03/10", Event: "Nongshim Cup", ScrapedAt: scrapedAt},
		{Id: 13, BlackId: 4, WhiteId: 5, Result: "B+R", PlayedOn: "2023-12-24", Event: "Club", Handicap: 2, ScrapedAt: scrapedAt},
		{Id: 14, BlackId: 1, WhiteId: 2, Result: "not a result", ScrapedAt: scrapedAt},
		{Id: 10, BlackId: 1, WhiteId: 2, Result: "B+R", ScrapedAt: scrapedAt},
	})
	require.NoError(t, err)
	require.EqualValues(t, 4, rows)
}

func TestSavePlayer(t *testing.T) {
	st := openStore(t)
	player := &model.Player{Id: 42, Name: " Lee  Sedol ", Rank: "9 pro", Country: "kr", ScrapedAt: scrapedAt}
	require.NoError(t, st.SavePlayer(player))

	found, err := st.Players.FindById(42)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Lee Sedol", found.Name)
	assert.Equal(t, "9p", found.Rank)
	assert.Equal(t, 48, found.RankValue)
	assert.Equal(t, "KR", found.Country)
	assert.True(t, scrapedAt.Equal(found.ScrapedAt))

	player.Wins = 10
	require.NoError(t, st.SavePlayer(player))
	found, _ = st.Players.FindById(42)
	assert.Equal(t, 10, found.Wins)
	count, err := st.Players.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	assert.Error(t, st.SavePlayer(&model.Player{Name: "nobody"}))

	missing, err := st.Players.FindById(7)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGameDao(t *testing.T) {
	st := openStore(t)
	fixtures(t, st)

	game, err := st.Games.FindById(12)
	require.NoError(t, err)
	require.NotNil(t, game)
	assert.Equal(t, "B+T", game.Result)
	assert.Equal(t, model.Black, game.Winner)
	assert.Equal(t, "2024-03-10", game.PlayedOn)
	assert.Equal(t, "Nongshim Cup", game.Event)

	games, err := st.Games.ListByPlayer(1, 0)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.EqualValues(t, 12, games[0].Id)
	games, err = st.Games.ListByPlayer(1, 2)
	require.NoError(t, err)
	assert.Len(t, games, 2)

	record, err := st.Games.RecordOf(1)
	require.NoError(t, err)
	assert.Equal(t, &model.Record{Games: 3, Wins: 2, Losses: 1}, record)

	h2h, between, err := st.HeadToHead(2, 1)
	require.NoError(t, err)
	assert.Len(t, between, 2)
	assert.Equal(t, model.Record{Games: 2, Losses: 2}, h2h)

	events, err := st.Games.Events()
	require.NoError(t, err)
	assert.Equal(t, []string{"Club", "LG Cup", "Nongshim Cup"}, events)

	rows, err := st.Games.DeleteById(13)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
	stats, err := st.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{Players: 5, Games: 3}, stats)
}

func TestPlayerDao(t *testing.T) {
	st := openStore(t)
	fixtures(t, st)

	top, err := st.Players.Top(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.EqualValues(t, 1, top[0].Id)
	assert.EqualValues(t, 2, top[1].Id)

	players, err := st.Players.FindByIds([]int64{5, 4, 99})
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Amateur Ann", players[0].Name)

	rows, err := st.Players.UpdateRecord(&model.Player{Id: 5, Wins: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
	found, _ := st.Players.FindById(5)
	assert.Equal(t, 3, found.Wins)
}

func TestSearchPlayers(t *testing.T) {
	st := openStore(t)
	fixtures(t, st)

	players, err := st.SearchPlayers(PlayerFilter{MinRank: "1d", OrderBy: "rank", Desc: true})
	require.NoError(t, err)
	require.Len(t, players, 4)
	assert.Equal(t, "Amateur Ann", players[3].Name)

	players, err = st.SearchPlayers(PlayerFilter{Country: "us", MaxRank: "1k"})
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Kyu Ken", players[0].Name)

	players, err = st.SearchPlayers(PlayerFilter{Name: "e", OrderBy: "name", Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Ke Jie", players[0].Name)
	assert.Equal(t, "Kyu Ken", players[1].Name)

	_, err = st.SearchPlayers(PlayerFilter{MinRank: "strong"})
	assert.ErrorIs(t, err, model.ErrRank)
	_, err = st.SearchPlayers(PlayerFilter{OrderBy: "age; DROP TABLE players"})
	assert.Error(t, err)
}

func TestSearchGames(t *testing.T) {
	st := openStore(t)
	fixtures(t, st)

	games, err := st.SearchGames(GameFilter{PlayerId: 1})
	require.NoError(t, err)
	assert.Len(t, games, 3)

	games, err = st.SearchGames(GameFilter{PlayerId: 1, OpponentId: 2, Winner: "w"})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.EqualValues(t, 11, games[0].Id)

	resigned := true
	games, err = st.SearchGames(GameFilter{Resigned: &resigned})
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.EqualValues(t, 10, games[0].Id)

	games, err = st.SearchGames(GameFilter{From: "2024-01-01", To: "2024/02/28", Event: "lg"})
	require.NoError(t, err)
	require.Len(t, games, 2)

	_, err = st.SearchGames(GameFilter{Winner: "draw"})
	assert.Error(t, err)
}

func TestIngest(t *testing.T) {
	st := openStore(t)
	page := &model.PlayerPage{
		Player: model.Player{Id: 1, Name: "Shin Jinseo", Rank: "9p"},
		Games: []model.Game{
			{Id: 10, BlackId: 1, WhiteId: 2, Result: "B+R", PlayedOn: "2024-01-10"},
			{Id: 11, BlackId: 2, WhiteId: 1, Result: "B+0.5", PlayedOn: "2024-02-10"},
			{Id: 12, BlackId: 1, WhiteId: 3, Result: "B+1.5", PlayedOn: "2024-03-10"},
		},
		Opponents: []model.Player{{Id: 2, Name: "Ke Jie", Rank: "9p"}, {Id: 3, Name: "Iyama Yuta"}},
	}
	require.NoError(t, st.Ingest(page))

	player, err := st.Players.FindById(1)
	require.NoError(t, err)
	assert.Equal(t, 2, player.Wins)
	assert.Equal(t, 1, player.Losses)
	stats, err := st.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{Players: 3, Games: 3}, stats)

	require.NoError(t, st.SavePlayer(&model.Player{Id: 2, Name: "Ke Jie", Rank: "9p", Wins: 100}))
	require.NoError(t, st.Ingest(&model.PlayerPage{
		Player:    model.Player{Id: 3, Name: "Iyama Yuta", Rank: "9p"},
		Opponents: []model.Player{{Id: 2, Name: "renamed"}},
	}))
	opponent, _ := st.Players.FindById(2)
	assert.Equal(t, "Ke Jie", opponent.Name)
	assert.Equal(t, 100, opponent.Wins)
}
