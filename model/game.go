package model

import (
	"fmt"
	"strings"
	"time"
)

type Game struct {
	Id        int64
	BlackId   int64
	WhiteId   int64
	BlackName string
	WhiteName string
	Result    string
	Winner    string
	Margin    float64
	Resigned  bool
	Moves     int
	Komi      float64
	Handicap  int
	PlayedOn  string
	Event     string
	SgfUrl    string
	ScrapedAt time.Time
}

const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"2006.01.02",
	"20060102",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDate reads the dates found on game lists and returns them as
// YYYY-MM-DD.
func ParseDate(text string) (string, error) {
	s := strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("model: invalid date %q", text)
}

// Normalize derives Winner, Margin and Resigned from Result and rewrites
// Result and PlayedOn into their canonical forms.
func (it *Game) Normalize() error {
	it.BlackName = strings.Join(strings.Fields(it.BlackName), " ")
	it.WhiteName = strings.Join(strings.Fields(it.WhiteName), " ")
	it.Event = strings.TrimSpace(it.Event)
	if it.ScrapedAt.IsZero() {
		it.ScrapedAt = time.Now().UTC()
	}
	if it.PlayedOn != "" {
		date, err := ParseDate(it.PlayedOn)
		if err != nil {
			return err
		}
		it.PlayedOn = date
	}
	result, err := ParseResult(it.Result)
	if err != nil {
		return err
	}
	it.Result = result.String()
	it.Winner = result.Winner
	it.Margin = result.Margin
	it.Resigned = result.Resigned
	return nil
}

func (it *Game) Involves(playerId int64) bool {
	return playerId != 0 && (it.BlackId == playerId || it.WhiteId == playerId)
}

// Opponent returns the id of the other player, or 0 when playerId did not
// play the game.
func (it *Game) Opponent(playerId int64) int64 {
	switch playerId {
	case 0:
		return 0
	case it.BlackId:
		return it.WhiteId
	case it.WhiteId:
		return it.BlackId
	}
	return 0
}

func (it *Game) WinnerId() int64 {
	switch it.Winner {
	case Black:
		return it.BlackId
	case White:
		return it.WhiteId
	}
	return 0
}
