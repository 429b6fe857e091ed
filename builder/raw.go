package builder

import (
	"github.com/avicd/go-kifu/logger"
	"github.com/avicd/go-kifu/session"
	"github.com/avicd/go-utilx/xmlx"
	"strings"
)

// RawBuilder builds a single statement from an inline script such as
// `<select id='count'>SELECT COUNT(*) FROM games</select>`.
type RawBuilder struct {
	Ns     string
	Script string
	Stmt   *session.Stmt
}

func (it *RawBuilder) Build(config *session.Config) {
	root, err := xmlx.Parse(strings.NewReader(it.Script))
	if err != nil {
		logger.Fatal(err.Error())
	}
	stNode := root.FindOne("select|insert|update|delete")
	if stNode == nil {
		logger.Error("missing statement in script text")
		return
	}
	stBuilder := &StmtBuilder{Ns: it.Ns, Nodes: []*xmlx.Node{stNode}}
	stBuilder.Build(config)
	it.Stmt = stBuilder.Stmts[stNode.AttrString("id")]
}
