package store

import (
	"fmt"
	"github.com/avicd/go-kifu/expr"
	"github.com/avicd/go-kifu/model"
)

const batchSize = 100

var playerColumns = []expr.Key{"id", "name", "rank", "rank_value", "country", "wins", "losses", "scraped_at"}

var gameColumns = []expr.Key{
	"id", "black_id", "white_id", "black_name", "white_name", "result", "winner", "margin", "resigned",
	"moves", "komi", "handicap", "played_on", "event", "sgf_url", "scraped_at",
}

func playerRow(p *model.Player) []any {
	return []any{p.Id, p.Name, p.Rank, p.RankValue, p.Country, p.Wins, p.Losses, p.ScrapedAt}
}

func gameRow(g *model.Game) []any {
	return []any{
		g.Id, g.BlackId, g.WhiteId, g.BlackName, g.WhiteName, g.Result, g.Winner, g.Margin, g.Resigned,
		g.Moves, g.Komi, g.Handicap, g.PlayedOn, g.Event, g.SgfUrl, g.ScrapedAt,
	}
}

// SavePlayer inserts the player or overwrites the stored one.
func (it *Store) SavePlayer(player *model.Player) error {
	if player.Id == 0 {
		return fmt.Errorf("store: player %q has no id", player.Name)
	}
	player.Normalize()
	_, err := it.Kifu.Exec(expr.InsertInto("players").
		Columns(playerColumns...).
		Values(playerRow(player)...).
		OnConflict("id").DoUpdate())
	return err
}

// AddPlayers inserts players that are not stored yet and leaves the others
// untouched. It returns the number of inserted rows.
func (it *Store) AddPlayers(players []model.Player) (int64, error) {
	var total int64
	seen := map[int64]bool{}
	stmt := newBatch(playerColumns)
	flush := func() error {
		if stmt.size() == 0 {
			return nil
		}
		rows, err := it.Kifu.Exec(stmt.insert("players").OnConflict("id").DoNothing())
		total += rows
		stmt = newBatch(playerColumns)
		return err
	}
	for i := range players {
		p := players[i]
		if p.Id == 0 || seen[p.Id] {
			continue
		}
		seen[p.Id] = true
		p.Normalize()
		stmt.add(playerRow(&p))
		if stmt.size() == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	return total, flush()
}

// SaveGames upserts games in batches. Games without id or with a result
// that does not parse are skipped; the number of written rows is returned.
func (it *Store) SaveGames(games []model.Game) (int64, error) {
	var total int64
	seen := map[int64]bool{}
	stmt := newBatch(gameColumns)
	flush := func() error {
		if stmt.size() == 0 {
			return nil
		}
		rows, err := it.Kifu.Exec(stmt.insert("games").OnConflict("id").DoUpdate())
		total += rows
		stmt = newBatch(gameColumns)
		return err
	}
	for i := range games {
		g := games[i]
		if g.Id == 0 || seen[g.Id] {
			continue
		}
		if err := g.Normalize(); err != nil {
			log.Warnf("skip game %d: %v", g.Id, err)
			continue
		}
		seen[g.Id] = true
		stmt.add(gameRow(&g))
		if stmt.size() == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	return total, flush()
}

type batch struct {
	columns []expr.Key
	rows    [][]any
}

func newBatch(columns []expr.Key) *batch {
	return &batch{columns: columns}
}

func (it *batch) add(row []any) {
	it.rows = append(it.rows, row)
}

func (it *batch) size() int {
	return len(it.rows)
}

func (it *batch) insert(table expr.Key) *expr.InsertStmt {
	stmt := expr.InsertInto(table).Columns(it.columns...)
	for _, row := range it.rows {
		stmt.Values(row...)
	}
	return stmt
}

// Ingest stores a scraped page in one transaction: the player, its games
// and the opponents not known yet. When the page carries no record the
// player's wins and losses are counted from the stored games.
func (it *Store) Ingest(page *model.PlayerPage) error {
	return it.Kifu.Tx(func() error {
		player := page.Player
		if err := it.SavePlayer(&player); err != nil {
			return err
		}
		if _, err := it.AddPlayers(page.Opponents); err != nil {
			return err
		}
		if _, err := it.SaveGames(page.Games); err != nil {
			return err
		}
		if player.Wins > 0 || player.Losses > 0 {
			return nil
		}
		record, err := it.Games.RecordOf(player.Id)
		if err != nil || record == nil || record.Wins+record.Losses == 0 {
			return err
		}
		player.Wins, player.Losses = record.Wins, record.Losses
		_, err = it.Players.UpdateRecord(&player)
		return err
	})
}
