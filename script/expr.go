package script

import (
	"fmt"
	"github.com/avicd/go-kifu/expr"
)

const exprPrefix = "_expr_var_"

// ExprNode renders an expression tree. Every bound value of the tree is
// published to the context under a generated name and referenced as #{name},
// so it reaches the driver as a placeholder like any mapper parameter.
type ExprNode struct {
	Node expr.Node
}

func (it *ExprNode) Render(ctx Context) bool {
	if it.Node == nil {
		return false
	}
	w := expr.NewWriterWith(func(value any) string {
		name := fmt.Sprintf("%s%d", exprPrefix, ctx.GetUid())
		ctx.Bind(name, value)
		return fmt.Sprintf("#{%s}", name)
	})
	it.Node.Render(w)
	if err := w.Err(); err != nil {
		panic(err)
	}
	ctx.Append(w.String())
	return true
}
