package scraper

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

// Selectors are the CSS selectors of a player page. Cell selectors are
// relative to one row of the game list.
type Selectors struct {
	PlayerPath string `yaml:"player_path"`
	Name       string `yaml:"name"`
	Rank       string `yaml:"rank"`
	Country    string `yaml:"country"`
	Wins       string `yaml:"wins"`
	Losses     string `yaml:"losses"`
	GameRow    string `yaml:"game_row"`
	GameLink   string `yaml:"game_link"`
	Date       string `yaml:"date"`
	Black      string `yaml:"black"`
	White      string `yaml:"white"`
	BlackRank  string `yaml:"black_rank"`
	WhiteRank  string `yaml:"white_rank"`
	Result     string `yaml:"result"`
	Moves      string `yaml:"moves"`
	Komi       string `yaml:"komi"`
	Handicap   string `yaml:"handicap"`
	Event      string `yaml:"event"`
	SgfLink    string `yaml:"sgf_link"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		PlayerPath: "/player/%d",
		Name:       "h1.player-name",
		Rank:       ".player-rank",
		Country:    ".player-country",
		Wins:       ".player-record .wins",
		Losses:     ".player-record .losses",
		GameRow:    "table.games tbody tr",
		GameLink:   "a.game",
		Date:       "td.date",
		Black:      "td.black a",
		White:      "td.white a",
		BlackRank:  "td.black .rank",
		WhiteRank:  "td.white .rank",
		Result:     "td.result",
		Moves:      "td.moves",
		Komi:       "td.komi",
		Handicap:   "td.handicap",
		Event:      "td.event",
		SgfLink:    "a.sgf",
	}
}

// ParseSelectors reads YAML over the defaults, so a file only has to name
// the selectors that differ.
func ParseSelectors(data []byte) (Selectors, error) {
	sel := DefaultSelectors()
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return sel, fmt.Errorf("scraper: parse selectors: %w", err)
	}
	if sel.Name == "" || sel.GameRow == "" || sel.PlayerPath == "" {
		return sel, fmt.Errorf("scraper: selectors need name, game_row and player_path")
	}
	return sel, nil
}

func LoadSelectors(file string) (Selectors, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Selectors{}, fmt.Errorf("scraper: load selectors: %w", err)
	}
	return ParseSelectors(data)
}

func (it Selectors) PlayerURL(id int64) string {
	return fmt.Sprintf(it.PlayerPath, id)
}
