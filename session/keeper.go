package session

import (
	"context"
	"github.com/avicd/go-kifu/logger"
	"github.com/avicd/go-utilx/datax"
	"unsafe"
)

type Keeper struct {
	factory *Factory
	reused  int
	chain   datax.LinkedList[*Session]
	done    datax.LinkedList[*Session]
	Context context.Context
}

func (it *Keeper) Current() *Session {
	val, _ := it.chain.Last()
	return val
}

func (it *Keeper) Reuse() {
	it.reused++
	session := it.Current()
	if session.txOn {
		logger.Debugf("transactional session %v reused", unsafe.Pointer(session))
	} else {
		logger.Debugf("normal session %v reused", unsafe.Pointer(session))
	}
}

func (it *Keeper) Push(session *Session) {
	it.chain.Push(session)
}

func (it *Keeper) Pop() {
	if it.reused > 0 {
		it.reused--
		return
	}
	if val, ok := it.chain.Pop(); ok {
		it.done.Push(val)
	}
}

func (it *Keeper) Locked() bool {
	return it.chain.Len() > 0
}

func (it *Keeper) reset() {
	it.factory.ResetKeeper()
}

// Commit closes every finished session, committing their transactions, and
// returns the first failure.
func (it *Keeper) Commit() error {
	var first error
	it.done.ForEach(func(i int, item *Session) {
		if item.txOn {
			logger.Debugf("transactional session %v committed", unsafe.Pointer(item))
		} else {
			logger.Debugf("normal session %v closed", unsafe.Pointer(item))
		}
		if err := item.close(false); err != nil && first == nil {
			first = err
		}
	})
	it.done.Clear()
	it.reset()
	return first
}

func (it *Keeper) Rollback() {
	closeFunc := func(i int, item *Session) {
		if item.txOn {
			logger.Debugf("transactional session %v rolled back", unsafe.Pointer(item))
		} else {
			logger.Debugf("normal session %v closed by forcing", unsafe.Pointer(item))
		}
		if err := item.close(true); err != nil {
			logger.Errorf("rollback: %v", err)
		}
	}
	it.done.ForEach(closeFunc)
	it.done.Clear()
	it.chain.ForEach(closeFunc)
	it.chain.Clear()
	it.reused = 0
	it.reset()
}
