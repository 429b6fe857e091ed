package script

import (
	"fmt"
	"github.com/avicd/go-utilx/refx"
	"github.com/avicd/go-utilx/tokx"
)

const foreachPrefix = "_foreach_var_"

// ForeachNode repeats Content for every element of Collection. Open and Close
// are only written when at least one element was rendered.
type ForeachNode struct {
	Collection string
	Content    SqlNode
	Open       string
	Close      string
	Separator  string
	Item       string
	Index      string
}

type foreachScope struct {
	Context
	node       *ForeachNode
	itemValue  any
	indexValue any
	rendered   int
}

func (ctx *foreachScope) withVars(fn func()) {
	node := ctx.node
	if node.Item != "" {
		ctx.Backup(node.Item)
		ctx.Bind(node.Item, ctx.itemValue)
	}
	if node.Index != "" {
		ctx.Backup(node.Index)
		ctx.Bind(node.Index, ctx.indexValue)
	}
	fn()
	if node.Item != "" {
		ctx.UnBind(node.Item)
		ctx.Restore(node.Item)
	}
	if node.Index != "" {
		ctx.UnBind(node.Index)
		ctx.Restore(node.Index)
	}
}

// Append freezes every #{} of the fragment to the current element, since
// the element variables are gone by the time the statement is evaluated.
func (ctx *foreachScope) Append(sql string) {
	var frozen string
	ctx.withVars(func() {
		frozen = tokx.NewPair("#{", "}").Map(sql, func(expr string) string {
			varName := fmt.Sprintf("%s%d", foreachPrefix, ctx.GetUid())
			ctx.Bind(varName, ctx.Eval(expr))
			return fmt.Sprintf("#{%s}", varName)
		})
	})
	if ctx.rendered == 0 && ctx.node.Open != "" {
		ctx.Context.Append(ctx.node.Open)
	}
	if ctx.rendered > 0 && ctx.node.Separator != "" {
		ctx.Context.Append(ctx.node.Separator)
	}
	ctx.rendered++
	ctx.Context.Append(frozen)
}

func (it *ForeachNode) Render(ctx Context) bool {
	result := ctx.Eval(it.Collection)
	scope := &foreachScope{Context: ctx, node: it}
	each := func(key any, val any) {
		scope.itemValue = val
		scope.indexValue = key
		it.Content.Render(scope)
	}
	if refx.IsNumber(result) {
		for i := 0; i < int(refx.AsInt(result)); i++ {
			each(i, i)
		}
	} else if result != nil && !refx.IsBasic(result) {
		refx.ForEach(result, each)
	}
	if scope.rendered > 0 && it.Close != "" {
		ctx.Append(it.Close)
	}
	return scope.rendered > 0
}
