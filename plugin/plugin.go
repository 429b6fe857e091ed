package plugin

import "github.com/avicd/go-kifu/session"

// Func turns a function into a session.Plugin.
type Func struct {
	Seq   int
	On    session.Hook
	At    session.Order
	Apply func(payload *session.Payload) bool
}

func (it *Func) Intercept(payload *session.Payload) bool {
	return it.Apply(payload)
}

func (it *Func) Hook() session.Hook {
	return it.On
}

func (it *Func) Order() session.Order {
	return it.At
}

func (it *Func) Id() int {
	return it.Seq
}

var stmtTypes = map[session.StmtType]string{
	session.Select:    "select",
	session.SelectSet: "select",
	session.Insert:    "insert",
	session.Update:    "update",
	session.Delete:    "delete",
}

func typeOf(stmt *session.Stmt) string {
	if stmt == nil {
		return "unknown"
	}
	return stmtTypes[stmt.StmtType]
}
