package model

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestParseRank(t *testing.T) {
	cases := []struct {
		text  string
		str   string
		value int
	}{
		{"30k", "30k", 0},
		{"1k", "1k", 29},
		{" 3 Kyu ", "3k", 27},
		{"1d", "1d", 30},
		{"9D", "9d", 38},
		{"5 dan", "5d", 34},
		{"1p", "1p", 40},
		{"9p", "9p", 48},
	}
	for _, c := range cases {
		rank, err := ParseRank(c.text)
		require.NoError(t, err, c.text)
		assert.Equal(t, c.str, rank.String())
		assert.Equal(t, c.value, rank.Value())
	}
	for _, text := range []string{"", "d", "0k", "31k", "10d", "10p", "5x", "dan"} {
		_, err := ParseRank(text)
		assert.ErrorIs(t, err, ErrRank, text)
	}
}

func TestRankOrder(t *testing.T) {
	kyu, _ := ParseRank("1k")
	dan, _ := ParseRank("1d")
	pro, _ := ParseRank("1p")
	amateur, _ := ParseRank("9d")
	assert.Less(t, kyu.Value(), dan.Value())
	assert.Less(t, amateur.Value(), pro.Value())
}

func TestParseResult(t *testing.T) {
	cases := []struct {
		text   string
		result Result
		str    string
	}{
		{"B+R", Result{Winner: Black, Resigned: true}, "B+R"},
		{"w+resign", Result{Winner: White, Resigned: true}, "W+R"},
		{"W+3.5", Result{Winner: White, Margin: 3.5}, "W+3.5"},
		{"B+12", Result{Winner: Black, Margin: 12}, "B+12"},
		{"B+T", Result{Winner: Black, Timeout: true}, "B+T"},
		{"W+F", Result{Winner: White, Forfeit: true}, "W+F"},
		{"B+", Result{Winner: Black}, "B+"},
		{"Jigo", Result{Jigo: true}, "Jigo"},
		{"Void", Result{Void: true}, "Void"},
		{"?", Result{Unknown: true}, "?"},
		{"", Result{Unknown: true}, "?"},
	}
	for _, c := range cases {
		result, err := ParseResult(c.text)
		require.NoError(t, err, c.text)
		assert.Equal(t, c.result, result, c.text)
		assert.Equal(t, c.str, result.String())
	}
	for _, text := range []string{"X+R", "B+abc", "B-3", "W+-1"} {
		_, err := ParseResult(text)
		assert.ErrorIs(t, err, ErrResult, text)
	}
}

func TestPlayerNormalize(t *testing.T) {
	player := &Player{Id: 7, Name: "  Cho   Chikun ", Rank: "9 pro", Country: " jp"}
	player.Normalize()
	assert.Equal(t, "Cho Chikun", player.Name)
	assert.Equal(t, "9p", player.Rank)
	assert.Equal(t, 48, player.RankValue)
	assert.Equal(t, "JP", player.Country)
	assert.False(t, player.ScrapedAt.IsZero())

	unranked := &Player{Rank: "beginner", ScrapedAt: time.Unix(0, 0)}
	unranked.Normalize()
	assert.Equal(t, UnknownRank, unranked.RankValue)
	assert.Equal(t, "beginner", unranked.Rank)
	assert.Equal(t, time.Unix(0, 0), unranked.ScrapedAt)
}

func TestGameNormalize(t *testing.T) {
	game := &Game{BlackId: 1, WhiteId: 2, Result: "w+0.5", PlayedOn: "2024/03/09"}
	require.NoError(t, game.Normalize())
	assert.Equal(t, "W+0.5", game.Result)
	assert.Equal(t, White, game.Winner)
	assert.Equal(t, 0.5, game.Margin)
	assert.False(t, game.Resigned)
	assert.Equal(t, "2024-03-09", game.PlayedOn)
	assert.EqualValues(t, 2, game.WinnerId())

	assert.Error(t, (&Game{Result: "B+R", PlayedOn: "yesterday"}).Normalize())
	assert.ErrorIs(t, (&Game{Result: "nonsense"}).Normalize(), ErrResult)
}

func TestOpponentAndTally(t *testing.T) {
	games := []Game{
		{BlackId: 1, WhiteId: 2, Winner: Black},
		{BlackId: 3, WhiteId: 1, Winner: Black},
		{BlackId: 1, WhiteId: 4},
		{BlackId: 5, WhiteId: 6, Winner: White},
	}
	assert.EqualValues(t, 2, games[0].Opponent(1))
	assert.EqualValues(t, 3, games[1].Opponent(1))
	assert.EqualValues(t, 0, games[3].Opponent(1))
	assert.True(t, games[2].Involves(4))
	assert.False(t, games[2].Involves(0))

	player := &Player{Id: 1}
	player.Tally(games)
	assert.Equal(t, 1, player.Wins)
	assert.Equal(t, 1, player.Losses)
}

func TestOpponentIds(t *testing.T) {
	page := &PlayerPage{
		Player: Player{Id: 1},
		Games: []Game{
			{BlackId: 1, WhiteId: 2},
			{BlackId: 3, WhiteId: 1},
			{BlackId: 2, WhiteId: 1},
			{BlackId: 1, WhiteId: 0},
		},
		Opponents: []Player{{Id: 4}, {Id: 3}},
	}
	assert.Equal(t, []int64{2, 3, 4}, page.OpponentIds())

	record := RecordOf(1, []Game{{BlackId: 1, WhiteId: 2, Winner: Black}, {BlackId: 1, WhiteId: 2}})
	assert.Equal(t, Record{Games: 2, Wins: 1}, record)
	assert.Equal(t, 1.0, record.WinRate())
	assert.Equal(t, 0.0, Record{}.WinRate())
}
