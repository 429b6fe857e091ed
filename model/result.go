package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	Black = "B"
	White = "W"
)

var ErrResult = errors.New("model: invalid game result")

// Result is a parsed game result like "B+R", "W+3.5" or "Jigo".
type Result struct {
	Winner   string
	Margin   float64
	Resigned bool
	Timeout  bool
	Forfeit  bool
	Jigo     bool
	Void     bool
	Unknown  bool
}

func ParseResult(text string) (Result, error) {
	s := strings.TrimSpace(text)
	switch strings.ToLower(s) {
	case "", "?", "unknown":
		return Result{Unknown: true}, nil
	case "jigo", "draw", "0":
		return Result{Jigo: true}, nil
	case "void":
		return Result{Void: true}, nil
	}
	winner, how, ok := strings.Cut(s, "+")
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrResult, text)
	}
	var ret Result
	switch strings.ToUpper(strings.TrimSpace(winner)) {
	case Black:
		ret.Winner = Black
	case White:
		ret.Winner = White
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrResult, text)
	}
	switch how = strings.ToLower(strings.TrimSpace(how)); how {
	case "":
	case "r", "res", "resign":
		ret.Resigned = true
	case "t", "time":
		ret.Timeout = true
	case "f", "forfeit":
		ret.Forfeit = true
	default:
		margin, err := strconv.ParseFloat(how, 64)
		if err != nil || margin < 0 {
			return Result{}, fmt.Errorf("%w: %q", ErrResult, text)
		}
		ret.Margin = margin
	}
	return ret, nil
}

func (it Result) String() string {
	switch {
	case it.Unknown:
		return "?"
	case it.Jigo:
		return "Jigo"
	case it.Void:
		return "Void"
	case it.Resigned:
		return it.Winner + "+R"
	case it.Timeout:
		return it.Winner + "+T"
	case it.Forfeit:
		return it.Winner + "+F"
	case it.Margin > 0:
		return it.Winner + "+" + strconv.FormatFloat(it.Margin, 'f', -1, 64)
	}
	return it.Winner + "+"
}
