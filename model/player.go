package model

import (
	"strings"
	"time"
)

type Player struct {
	Id        int64
	Name      string
	Rank      string
	RankValue int
	Country   string
	Wins      int
	Losses    int
	ScrapedAt time.Time
}

// UnknownRank is the RankValue of players whose rank does not parse.
const UnknownRank = -1

func (it *Player) Normalize() {
	it.Name = strings.Join(strings.Fields(it.Name), " ")
	it.Country = strings.ToUpper(strings.TrimSpace(it.Country))
	if rank, err := ParseRank(it.Rank); err == nil {
		it.Rank = rank.String()
		it.RankValue = rank.Value()
	} else {
		it.Rank = strings.TrimSpace(it.Rank)
		it.RankValue = UnknownRank
	}
	if it.ScrapedAt.IsZero() {
		it.ScrapedAt = time.Now().UTC()
	}
}

// Tally sets Wins and Losses from games.
func (it *Player) Tally(games []Game) {
	record := RecordOf(it.Id, games)
	it.Wins, it.Losses = record.Wins, record.Losses
}
