package plugin

import (
	"github.com/avicd/go-kifu/logger"
	"github.com/avicd/go-kifu/session"
	"time"
)

var log = logger.Scope("sql")

// SlowLog warns about statements running longer than Threshold and about
// every failed statement.
type SlowLog struct {
	Threshold time.Duration
	// Slow is called with every slow statement after it was logged.
	Slow func(id string, elapsed time.Duration)
}

func (it *SlowLog) Install(config *session.Config) {
	config.AddPlugin(&Func{Seq: 200, On: session.SqlQuery, At: session.After, Apply: it.check})
	config.AddPlugin(&Func{Seq: 200, On: session.Failed, At: session.After, Apply: it.failed})
}

func (it *SlowLog) check(payload *session.Payload) bool {
	if it.Threshold <= 0 || payload.Elapsed < it.Threshold {
		return true
	}
	log.Warnf("slow statement '%s' took %s: %s", payload.Stmt.Id, payload.Elapsed, payload.Sql)
	if it.Slow != nil {
		it.Slow(payload.Stmt.Id, payload.Elapsed)
	}
	return true
}

func (it *SlowLog) failed(payload *session.Payload) bool {
	log.Warnf("statement failed: %v", payload.Err)
	return true
}
