package script

import "github.com/avicd/go-utilx/refx"

// StaticNode is text without ${} substitutions; it renders the same way on
// every call.
type StaticNode struct {
	Text string
}

func (it *StaticNode) Render(ctx Context) bool {
	ctx.Append(it.Text)
	return true
}

// ProxyNode renders its children in order.
type ProxyNode struct {
	SqlNodes []SqlNode
}

func (it *ProxyNode) Render(ctx Context) bool {
	for _, p := range it.SqlNodes {
		p.Render(ctx)
	}
	return true
}

type IfNode struct {
	Content SqlNode
	Test    string
}

func (it *IfNode) Render(ctx Context) bool {
	if !refx.AsBool(ctx.Eval(it.Test)) {
		return false
	}
	if it.Content != nil {
		it.Content.Render(ctx)
	}
	return true
}

// ChooseNode renders the first branch whose test holds, or Default.
type ChooseNode struct {
	Default SqlNode
	IfNodes []SqlNode
}

func (it *ChooseNode) Render(ctx Context) bool {
	for _, p := range it.IfNodes {
		if p.Render(ctx) {
			return true
		}
	}
	if it.Default == nil {
		return false
	}
	it.Default.Render(ctx)
	return true
}

type BindNode struct {
	Name  string
	Value string
}

func (it *BindNode) Render(ctx Context) bool {
	ctx.Bind(it.Name, ctx.Eval(it.Value))
	return true
}

type IncludeNode struct {
	Content SqlNode
}

func (it *IncludeNode) Render(ctx Context) bool {
	if it.Content == nil {
		return false
	}
	it.Content.Render(ctx)
	return true
}
