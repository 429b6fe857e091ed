package builder

import "github.com/avicd/go-kifu/session"

type Builder interface {
	Build(config *session.Config)
}
