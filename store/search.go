package store

import (
	"fmt"
	"github.com/avicd/go-kifu/expr"
	"github.com/avicd/go-kifu/model"
	"strings"
)

type PlayerFilter struct {
	// Name matches any part of the player name.
	Name    string
	Country string
	MinRank string
	MaxRank string
	MinWins int
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

var playerOrders = map[string]expr.Key{
	"":     "rank_value",
	"rank": "rank_value",
	"name": "name",
	"wins": "wins",
	"id":   "id",
}

func contains(text string) string {
	return "%" + strings.TrimSpace(text) + "%"
}

func rankBound(key expr.Key, text string, min bool) (expr.Cond, error) {
	if strings.TrimSpace(text) == "" {
		return expr.Empty, nil
	}
	rank, err := model.ParseRank(text)
	if err != nil {
		return nil, err
	}
	if min {
		return key.Ge(rank.Value()), nil
	}
	return key.Le(rank.Value()), nil
}

func (it PlayerFilter) Tree() (*expr.SelectStmt, error) {
	minRank, err := rankBound("rank_value", it.MinRank, true)
	if err != nil {
		return nil, err
	}
	maxRank, err := rankBound("rank_value", it.MaxRank, false)
	if err != nil {
		return nil, err
	}
	order, ok := playerOrders[strings.ToLower(it.OrderBy)]
	if !ok {
		return nil, fmt.Errorf("store: cannot order players by %q", it.OrderBy)
	}
	var conds []expr.Cond
	if it.Name != "" {
		conds = append(conds, expr.Key("name").Like(contains(it.Name)))
	}
	if it.Country != "" {
		conds = append(conds, expr.Key("country").Eq(strings.ToUpper(it.Country)))
	}
	if it.MinWins > 0 {
		conds = append(conds, expr.Key("wins").Ge(it.MinWins))
	}
	conds = append(conds, minRank, maxRank)
	ordering := order.Asc()
	if it.Desc {
		ordering = order.Desc()
	}
	return expr.Select(playerColumns...).From("players").
		Where(conds...).
		OrderBy(ordering, expr.Key("id").Asc()).
		Limit(it.Limit).
		Offset(it.Offset), nil
}

func (it *Store) SearchPlayers(filter PlayerFilter) ([]model.Player, error) {
	tree, err := filter.Tree()
	if err != nil {
		return nil, err
	}
	var players []model.Player
	err = it.Kifu.Select(&players, tree)
	return players, err
}

type GameFilter struct {
	PlayerId   int64
	OpponentId int64
	// Winner is "B" or "W".
	Winner string
	Event  string
	// From and To bound PlayedOn, both inclusive.
	From     string
	To       string
	Resigned *bool
	Limit    int
	Offset   int
}

func involves(playerId int64) expr.Cond {
	if playerId == 0 {
		return expr.Empty
	}
	return expr.Or(expr.Key("black_id").Eq(playerId), expr.Key("white_id").Eq(playerId))
}

func dateBound(key expr.Key, text string, from bool) (expr.Cond, error) {
	if text == "" {
		return expr.Empty, nil
	}
	date, err := model.ParseDate(text)
	if err != nil {
		return nil, err
	}
	if from {
		return key.Ge(date), nil
	}
	return key.Le(date), nil
}

func (it GameFilter) Tree() (*expr.SelectStmt, error) {
	from, err := dateBound("played_on", it.From, true)
	if err != nil {
		return nil, err
	}
	to, err := dateBound("played_on", it.To, false)
	if err != nil {
		return nil, err
	}
	conds := []expr.Cond{involves(it.PlayerId), involves(it.OpponentId), from, to}
	switch strings.ToUpper(it.Winner) {
	case "":
	case model.Black, model.White:
		conds = append(conds, expr.Key("winner").Eq(strings.ToUpper(it.Winner)))
	default:
		return nil, fmt.Errorf("store: invalid winner %q", it.Winner)
	}
	if it.Event != "" {
		conds = append(conds, expr.Key("event").Like(contains(it.Event)))
	}
	if it.Resigned != nil {
		conds = append(conds, expr.Key("resigned").Eq(*it.Resigned))
	}
	return expr.Select(gameColumns...).From("games").
		Where(conds...).
		OrderBy(expr.Key("played_on").Desc(), expr.Key("id").Desc()).
		Limit(it.Limit).
		Offset(it.Offset), nil
}

func (it *Store) SearchGames(filter GameFilter) ([]model.Game, error) {
	tree, err := filter.Tree()
	if err != nil {
		return nil, err
	}
	var games []model.Game
	err = it.Kifu.Select(&games, tree)
	return games, err
}

// HeadToHead returns the games between a and b with the record of a.
func (it *Store) HeadToHead(a, b int64) (model.Record, []model.Game, error) {
	games, err := it.Games.Between(a, b)
	if err != nil {
		return model.Record{}, nil, err
	}
	return model.RecordOf(a, games), games, nil
}
