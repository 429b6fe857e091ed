package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"github.com/avicd/go-kifu"
	"github.com/avicd/go-kifu/builder"
	"github.com/avicd/go-kifu/dialect"
	"github.com/avicd/go-kifu/logger"
	"github.com/avicd/go-kifu/model"
	"github.com/avicd/go-kifu/session"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"strings"
)

//go:embed schema.sql
var schema string

//go:embed mapper/*.xml
var mappers embed.FS

var log = logger.Scope("store")

type PlayerDao struct {
	FindById     func(id int64) (*model.Player, error)
	FindByIds    func(ids []int64) ([]model.Player, error)
	Top          func(limit int) ([]model.Player, error)
	Count        func() (int64, error)
	UpdateRecord func(player *model.Player) (int64, error)
	DeleteById   func(id int64) (int64, error)
}

type GameDao struct {
	FindById     func(id int64) (*model.Game, error)
	ListByPlayer func(playerId int64, limit int) ([]model.Game, error)
	Between      func(a, b int64) ([]model.Game, error)
	RecordOf     func(playerId int64) (*model.Record, error)
	Count        func() (int64, error)
	Events       func() ([]string, error)
	DeleteById   func(id int64) (int64, error)
}

type Store struct {
	DB      *sql.DB
	Kifu    *kifu.Kifu
	Players PlayerDao
	Games   GameDao
}

// Open connects to dsn with one of the registered drivers: sqlite3 or pgx.
func Open(driver, dsn string) (*Store, error) {
	dia, ok := dialect.ByDriver(driver)
	if !ok {
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	if dia == dialect.SQLite {
		// one writer at a time, and :memory: stays a single database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", driver, err)
	}
	return New(db, dia), nil
}

func New(db *sql.DB, dia dialect.Dialect) *Store {
	config := &session.Config{Dialect: dia}
	config.SetMainDB(db)
	ins := kifu.New(config, &builder.XmlBuilder{Scan: "mapper/*.xml", FS: mappers})
	it := &Store{DB: db, Kifu: ins}
	ins.AsMapper(&it.Players)
	ins.AsMapper(&it.Games)
	return it
}

func (it *Store) Config() *session.Config {
	return it.Kifu.Config
}

func (it *Store) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := it.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	log.Infof("schema is up to date (%s)", it.Config().GetDialect().Name())
	return nil
}

func (it *Store) Close() error {
	return it.DB.Close()
}

type Stats struct {
	Players int64
	Games   int64
}

func (it *Store) Stats() (Stats, error) {
	var stats Stats
	var err error
	if stats.Players, err = it.Players.Count(); err != nil {
		return stats, err
	}
	stats.Games, err = it.Games.Count()
	return stats, err
}
