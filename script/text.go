package script

import (
	"errors"
	"fmt"
	"github.com/avicd/go-utilx/refx"
	"github.com/avicd/go-utilx/tokx"
	"regexp"
)

const InjectPattern = `(?i)(?:')|(?:--)|(/\*(?:.|[\n\r])*?\*/)|(\b(select|update|and|or|delete|insert|truncate|char|chr|into|substr|ascii|declare|exec|count|master|drop|execute)\b)`

var (
	injectRegex    = regexp.MustCompile(InjectPattern)
	ErrInjectValue = errors.New("kifu: value rejected for ${} substitution")
)

// CheckInject fails when text could change the structure of the statement
// it is spliced into.
func CheckInject(text string) error {
	if text != "" && injectRegex.MatchString(text) {
		return fmt.Errorf("%w: %q", ErrInjectValue, text)
	}
	return nil
}

type TextNode struct {
	Text string
}

func (it *TextNode) IsDynamic() bool {
	return tokx.NewPair("${", "}").Match(it.Text)
}

func (it *TextNode) Render(ctx Context) bool {
	sqlStr := tokx.NewPair("${", "}").Map(it.Text, func(expr string) string {
		result := refx.AsString(ctx.Eval(expr))
		if err := CheckInject(result); err != nil {
			panic(err)
		}
		return result
	})
	ctx.Append(sqlStr)
	return true
}
