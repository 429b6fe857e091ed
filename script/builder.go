package script

import (
	"github.com/avicd/go-utilx/evalx"
	"strings"
)

// Context is what nodes render into: an expression scope plus the text
// buffer of the statement being built.
type Context interface {
	Eval(text string) any
	GetUid() int64
	Bind(name string, value interface{})
	UnBind(name string)
	Backup(name string)
	Restore(name string)
	Append(sql string)
	Reset()
}

type SqlNode interface {
	// Render reports whether the node produced anything.
	Render(ctx Context) bool
}

type SqlBuilder struct {
	*evalx.Scope
	uid int64
	buf strings.Builder
}

func NewSqlBuilder() *SqlBuilder {
	return &SqlBuilder{
		Scope: evalx.NewScope(),
	}
}

func (it *SqlBuilder) Build(sqlNode SqlNode) string {
	it.Reset()
	sqlNode.Render(it)
	return strings.TrimSpace(it.buf.String())
}

func (it *SqlBuilder) Eval(text string) any {
	val, _ := it.Scope.Eval(text)
	return val
}

func (it *SqlBuilder) GetUid() int64 {
	it.uid++
	return it.uid
}

func (it *SqlBuilder) Append(sql string) {
	if sql == "" {
		return
	}
	it.buf.WriteString(" " + sql)
}

func (it *SqlBuilder) Reset() {
	it.buf.Reset()
}
