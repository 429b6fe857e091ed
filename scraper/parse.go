package scraper

import (
	"errors"
	"fmt"
	"github.com/PuerkitoBio/goquery"
	"github.com/avicd/go-kifu/model"
	"net/url"
	"path"
	"strconv"
	"strings"
)

var ErrNoPlayer = errors.New("scraper: not a player page")

// IdOf reads the numeric id out of links like /player/123,
// /games/123.sgf or player.php?id=123.
func IdOf(href string) (int64, bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return 0, false
	}
	text := u.Query().Get("id")
	if text == "" {
		text = path.Base(u.Path)
		if ext := path.Ext(text); ext != "" {
			text = strings.TrimSuffix(text, ext)
		}
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func textOf(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.Join(strings.Fields(s.Find(selector).First().Text()), " ")
}

func intOf(text string) int {
	fields := strings.Fields(strings.ReplaceAll(text, ",", ""))
	if len(fields) < 1 {
		return 0
	}
	val, _ := strconv.Atoi(fields[0])
	return val
}

func floatOf(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) < 1 {
		return 0
	}
	val, _ := strconv.ParseFloat(fields[0], 64)
	return val
}

func resolve(base *url.URL, href string) string {
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

type side struct {
	id   int64
	name string
	rank string
}

func sideOf(row *goquery.Selection, link, rank string) side {
	a := row.Find(link).First()
	id, _ := IdOf(a.AttrOr("href", ""))
	return side{
		id:   id,
		name: strings.Join(strings.Fields(a.Text()), " "),
		rank: textOf(row, rank),
	}
}

// ParsePlayerPage extracts the player with the given id, its game list and
// the opponents met in it.
func ParsePlayerPage(doc *goquery.Document, sel Selectors, playerId int64) (*model.PlayerPage, error) {
	name := textOf(doc.Selection, sel.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: player %d", ErrNoPlayer, playerId)
	}
	page := &model.PlayerPage{
		Player: model.Player{
			Id:      playerId,
			Name:    name,
			Rank:    textOf(doc.Selection, sel.Rank),
			Country: textOf(doc.Selection, sel.Country),
			Wins:    intOf(textOf(doc.Selection, sel.Wins)),
			Losses:  intOf(textOf(doc.Selection, sel.Losses)),
		},
	}
	opponents := map[int64]bool{playerId: true}
	doc.Find(sel.GameRow).Each(func(i int, row *goquery.Selection) {
		gameId, ok := IdOf(row.Find(sel.GameLink).First().AttrOr("href", ""))
		if !ok {
			return
		}
		black := sideOf(row, sel.Black, sel.BlackRank)
		white := sideOf(row, sel.White, sel.WhiteRank)
		page.Games = append(page.Games, model.Game{
			Id:        gameId,
			BlackId:   black.id,
			WhiteId:   white.id,
			BlackName: black.name,
			WhiteName: white.name,
			Result:    textOf(row, sel.Result),
			Moves:     intOf(textOf(row, sel.Moves)),
			Komi:      floatOf(textOf(row, sel.Komi)),
			Handicap:  intOf(textOf(row, sel.Handicap)),
			PlayedOn:  textOf(row, sel.Date),
			Event:     textOf(row, sel.Event),
			SgfUrl:    resolve(doc.Url, row.Find(sel.SgfLink).First().AttrOr("href", "")),
		})
		for _, s := range []side{black, white} {
			if s.id == 0 || opponents[s.id] {
				continue
			}
			opponents[s.id] = true
			page.Opponents = append(page.Opponents, model.Player{Id: s.id, Name: s.name, Rank: s.rank})
		}
	})
	return page, nil
}
