package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type RankKind int

const (
	Kyu RankKind = iota
	Dan
	Pro
)

var ErrRank = errors.New("model: invalid rank")

// Rank is a player strength such as 3k, 5d or 9p.
type Rank struct {
	Kind  RankKind
	Level int
}

var rankSuffixes = []struct {
	suffix string
	kind   RankKind
}{
	{"kyu", Kyu},
	{"dan", Dan},
	{"pro", Pro},
	{"k", Kyu},
	{"d", Dan},
	{"p", Pro},
}

var maxLevel = map[RankKind]int{Kyu: 30, Dan: 9, Pro: 9}

func ParseRank(text string) (Rank, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, rs := range rankSuffixes {
		if !strings.HasSuffix(s, rs.suffix) {
			continue
		}
		level, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, rs.suffix)))
		if err != nil || level < 1 || level > maxLevel[rs.kind] {
			break
		}
		return Rank{Kind: rs.kind, Level: level}, nil
	}
	return Rank{}, fmt.Errorf("%w: %q", ErrRank, text)
}

// Value orders ranks from 30k (0) through 1k (29), 1d (30) to 9d (38) and
// 1p (40) to 9p (48).
func (it Rank) Value() int {
	switch it.Kind {
	case Dan:
		return 29 + it.Level
	case Pro:
		return 39 + it.Level
	}
	return 30 - it.Level
}

func (it Rank) String() string {
	switch it.Kind {
	case Dan:
		return fmt.Sprintf("%dd", it.Level)
	case Pro:
		return fmt.Sprintf("%dp", it.Level)
	}
	return fmt.Sprintf("%dk", it.Level)
}
