package session

import (
	"context"
	"database/sql"
	"errors"
	"github.com/avicd/go-kifu/logger"
)

type Session struct {
	config  *Config
	txOn    bool
	txOpts  *sql.TxOptions
	ctx     context.Context
	keeper  *Keeper
	txs     []*sql.Tx
	cons    []*sql.Conn
	stmts   []*sql.Stmt
	dbProxy map[*sql.DB]DBProxy
	closed  bool
	aborted bool
}

type DBProxy interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	ErrNoDB      = errors.New("kifu: no database configured for statement")
	ErrTxAborted = errors.New("kifu: transaction was rolled back")
)

func (it *Session) getDBProxy(stmt *Stmt) (DBProxy, error) {
	db := stmt.DB()
	if db == nil {
		return nil, ErrNoDB
	}
	if it.dbProxy == nil {
		it.dbProxy = map[*sql.DB]DBProxy{}
	}
	if proxy, ok := it.dbProxy[db]; ok {
		return proxy, nil
	}
	conn, err := db.Conn(it.ctx)
	if err != nil {
		return nil, err
	}
	it.cons = append(it.cons, conn)
	if !it.txOn {
		it.dbProxy[db] = conn
		return conn, nil
	}
	tx, err := conn.BeginTx(it.ctx, it.txOpts)
	if err != nil {
		return nil, err
	}
	it.dbProxy[db] = tx
	it.txs = append(it.txs, tx)
	return tx, nil
}

func (it *Session) prepare(stmt *Stmt, sql string) (*sql.Stmt, error) {
	proxy, err := it.getDBProxy(stmt)
	if err != nil {
		return nil, err
	}
	prepared, err := proxy.PrepareContext(it.ctx, sql)
	if err != nil {
		return nil, err
	}
	it.stmts = append(it.stmts, prepared)
	return prepared, nil
}

func (it *Session) Query(stmt *Stmt, sql string, values []any) (*sql.Rows, error) {
	prepared, err := it.prepare(stmt, sql)
	if err != nil {
		return nil, err
	}
	return prepared.QueryContext(it.ctx, values...)
}

func (it *Session) Exec(stmt *Stmt, sql string, values []any) (sql.Result, error) {
	prepared, err := it.prepare(stmt, sql)
	if err != nil {
		return nil, err
	}
	return prepared.ExecContext(it.ctx, values...)
}

func (it *Session) Commit() error {
	if it.closed {
		if it.aborted {
			return ErrTxAborted
		}
		return nil
	}
	it.keeper.Pop()
	if !it.keeper.Locked() {
		return it.keeper.Commit()
	}
	return nil
}

func (it *Session) Rollback() {
	if it.closed {
		return
	}
	it.keeper.Rollback()
}

func (it *Session) close(rollback bool) error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.aborted = rollback && it.txOn
	var first error
	keep := func(err error) {
		if err == nil {
			return
		}
		logger.Error(err.Error())
		if first == nil {
			first = err
		}
	}
	for _, stmt := range it.stmts {
		keep(stmt.Close())
	}
	for _, tx := range it.txs {
		if rollback {
			keep(tx.Rollback())
		} else {
			keep(tx.Commit())
		}
	}
	for _, conn := range it.cons {
		keep(conn.Close())
	}
	it.cons = nil
	it.txs = nil
	it.stmts = nil
	it.dbProxy = nil
	return first
}
