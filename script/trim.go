package script

import "strings"

// TrimNode wraps its content with Prefix/Suffix once something is rendered,
// dropping a leading/trailing override token first. Matching of override
// tokens ignores case, so "and " in a mapper is handled like "AND ".
type TrimNode struct {
	Content            SqlNode
	Prefix             string
	Suffix             string
	PrefixesToOverride []string
	SuffixesToOverride []string
}

type trimScope struct {
	Context
	node    *TrimNode
	pending []string
}

func cutPrefixFold(text string, cuts []string) string {
	for _, cut := range cuts {
		if cut != "" && len(text) >= len(cut) && strings.EqualFold(text[:len(cut)], cut) {
			return text[len(cut):]
		}
	}
	return text
}

func cutSuffixFold(text string, cuts []string) string {
	for _, cut := range cuts {
		if cut != "" && len(text) >= len(cut) && strings.EqualFold(text[len(text)-len(cut):], cut) {
			return text[:len(text)-len(cut)]
		}
	}
	return text
}

func (ctx *trimScope) Append(sql string) {
	if trimmed := strings.TrimSpace(sql); trimmed != "" {
		ctx.pending = append(ctx.pending, trimmed)
	}
}

func (ctx *trimScope) flush() {
	text := strings.TrimSpace(strings.Join(ctx.pending, " "))
	text = strings.TrimSpace(cutPrefixFold(text, ctx.node.PrefixesToOverride))
	text = strings.TrimSpace(cutSuffixFold(text, ctx.node.SuffixesToOverride))
	if text == "" {
		return
	}
	if ctx.node.Prefix != "" {
		text = ctx.node.Prefix + " " + text
	}
	if ctx.node.Suffix != "" {
		text += " " + ctx.node.Suffix
	}
	ctx.Context.Append(text)
}

func (it *TrimNode) Render(ctx Context) bool {
	scope := &trimScope{Context: ctx, node: it}
	ok := it.Content.Render(scope)
	scope.flush()
	return ok
}
