package session

import (
	"context"
	"database/sql"
	"github.com/avicd/go-kifu/logger"
	"github.com/avicd/go-utilx/goid"
	"reflect"
	"sync"
	"unsafe"
)

// Factory hands out sessions. Each goroutine owns one Keeper, so nested
// mapper calls made by the same goroutine share the open session.
type Factory struct {
	mu     sync.Mutex
	config *Config
	local  map[int64]*Keeper
}

func (it *Factory) Keeper() *Keeper {
	sid := goid.Id()
	it.mu.Lock()
	defer it.mu.Unlock()
	if keeper, ok := it.local[sid]; ok {
		return keeper
	}
	ret := &Keeper{
		factory: it,
		Context: context.Background(),
	}
	it.local[sid] = ret
	return ret
}

func (it *Factory) ResetKeeper() {
	sid := goid.Id()
	it.mu.Lock()
	defer it.mu.Unlock()
	delete(it.local, sid)
}

func (it *Factory) Open() *Session {
	keeper := it.Keeper()
	if keeper.Locked() {
		keeper.Reuse()
		return keeper.Current()
	}
	session := &Session{
		config: it.config,
		keeper: keeper,
		ctx:    keeper.Context,
	}
	keeper.Push(session)
	logger.Debugf("normal session %v opened", unsafe.Pointer(session))
	return session
}

func (it *Factory) OpenTxWith(txOpts *sql.TxOptions) *Session {
	keeper := it.Keeper()
	if keeper.Locked() {
		session := keeper.Current()
		if session.txOn && reflect.DeepEqual(session.txOpts, txOpts) {
			keeper.Reuse()
			return session
		}
	}
	session := &Session{
		config: it.config,
		keeper: keeper,
		ctx:    keeper.Context,
		txOn:   true,
		txOpts: txOpts,
	}
	keeper.Push(session)
	logger.Debugf("transactional session %v opened", unsafe.Pointer(session))
	return session
}
