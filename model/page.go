package model

// Record is the win/loss record of a player over a set of games.
type Record struct {
	Games  int
	Wins   int
	Losses int
}

func (it Record) WinRate() float64 {
	if it.Wins+it.Losses == 0 {
		return 0
	}
	return float64(it.Wins) / float64(it.Wins+it.Losses)
}

// RecordOf scores games from the point of view of playerId.
func RecordOf(playerId int64, games []Game) Record {
	var ret Record
	for _, game := range games {
		if !game.Involves(playerId) {
			continue
		}
		ret.Games++
		switch game.WinnerId() {
		case 0:
		case playerId:
			ret.Wins++
		default:
			ret.Losses++
		}
	}
	return ret
}

// PlayerPage is everything scraped from one player page.
type PlayerPage struct {
	Player    Player
	Games     []Game
	Opponents []Player
}

// OpponentIds lists the distinct opponents of the page owner in the order
// they first appear.
func (it *PlayerPage) OpponentIds() []int64 {
	seen := map[int64]bool{it.Player.Id: true, 0: true}
	var ids []int64
	add := func(id int64) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, game := range it.Games {
		add(game.Opponent(it.Player.Id))
	}
	for _, p := range it.Opponents {
		add(p.Id)
	}
	return ids
}
