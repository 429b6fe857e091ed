package builder

import (
	"github.com/avicd/go-kifu/expr"
	"github.com/avicd/go-kifu/script"
	"github.com/avicd/go-kifu/session"
)

var methodTypes = map[expr.MethodKind]session.StmtType{
	expr.SelectMethod: session.Select,
	expr.InsertMethod: session.Insert,
	expr.UpdateMethod: session.Update,
	expr.DeleteMethod: session.Delete,
}

// ExprBuilder turns an expression tree into a statement. With an Id the
// statement is registered under Ns like a mapper statement; without one it
// is only attached to the config.
type ExprBuilder struct {
	Ns   string
	Id   string
	Node expr.Method
	Stmt *session.Stmt
}

func StmtTypeOf(node expr.Method) session.StmtType {
	return methodTypes[node.Method()]
}

func (it *ExprBuilder) Build(config *session.Config) {
	ns := it.Ns
	if ns == "" {
		ns = session.NameSpace
	}
	stmt := &session.Stmt{
		Id:       ns + "." + it.Id,
		Ns:       ns,
		SqlNode:  &script.ExprNode{Node: it.Node},
		Dynamic:  true,
		StmtType: StmtTypeOf(it.Node),
	}
	if it.Id == "" {
		stmt.Id = ns + ".expr"
		it.Stmt = config.Attach(stmt)
		return
	}
	config.AddStmt(stmt)
	it.Stmt = stmt
}
