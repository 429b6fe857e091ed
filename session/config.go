package session

import (
	"database/sql"
	"github.com/avicd/go-kifu/dialect"
	"github.com/avicd/go-kifu/logger"
	"io/fs"
	"sync"
	"unsafe"
)

const NameSpace = "github.com/avicd/go-kifu"

type RsMap = map[string][]string

type Config struct {
	// XmlScan is the doublestar pattern of mapper files, resolved against
	// XmlFS when set and the working directory otherwise.
	XmlScan string
	XmlFS   fs.FS
	Dialect dialect.Dialect
	mu      sync.RWMutex
	factory *Factory
	mainDB  *sql.DB
	dbMap   map[string]*sql.DB
	nss     map[string]string
	stmts   map[string]*Stmt
	rsMaps  map[string]RsMap
	plugins []Plugin
}

func (it *Config) MainDB() *sql.DB {
	return it.mainDB
}

func (it *Config) SetMainDB(db *sql.DB) {
	it.mainDB = db
	logger.Debugf("set main database %v", unsafe.Pointer(db))
}

func (it *Config) SetDB(id string, db *sql.DB) *Config {
	if it.dbMap == nil {
		it.dbMap = map[string]*sql.DB{}
	}
	if it.mainDB == nil {
		it.SetMainDB(db)
	}
	it.dbMap[id] = db
	logger.Debugf("set database id='%s' %v", id, unsafe.Pointer(db))
	return it
}

func (it *Config) GetDB(id string) *sql.DB {
	if db, ok := it.dbMap[id]; ok {
		return db
	}
	return nil
}

func (it *Config) GetDialect() dialect.Dialect {
	if it.Dialect == nil {
		return dialect.SQLite
	}
	return it.Dialect
}

func (it *Config) AddNs(ns string, xml string) {
	if it.nss == nil {
		it.nss = map[string]string{}
	}
	it.nss[ns] = xml
	logger.Debugf("add mapper '%s', file=%s", ns, xml)
}

func (it *Config) GetNsXml(ns string) string {
	if str, ok := it.nss[ns]; ok {
		return str
	}
	return ""
}

func (it *Config) HasNs(ns string) bool {
	_, exist := it.nss[ns]
	return exist
}

func (it *Config) AddRsMap(id string, rsMap RsMap) {
	if it.rsMaps == nil {
		it.rsMaps = map[string]RsMap{}
	}
	it.rsMaps[id] = rsMap
	logger.Debugf("add resultMap '%s'", id)
}

func (it *Config) GetRsMap(id string) RsMap {
	if val, ok := it.rsMaps[id]; ok {
		return val
	}
	return nil
}

func (it *Config) AddStmt(stmt *Stmt) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.stmts == nil {
		it.stmts = map[string]*Stmt{}
	}
	stmt.config = it
	it.stmts[stmt.Id] = stmt
	logger.Debugf("add statement '%s'", stmt.Id)
}

// Attach binds stmt to the config without registering it, for statements
// that live only as long as one call.
func (it *Config) Attach(stmt *Stmt) *Stmt {
	stmt.config = it
	return stmt
}

func (it *Config) GetStmt(id string) *Stmt {
	id = StmtIdOf(id)
	it.mu.RLock()
	defer it.mu.RUnlock()
	if stmt, ok := it.stmts[id]; ok {
		return stmt
	}
	return nil
}

func (it *Config) AddPlugin(plugin Plugin) {
	if plugin == nil {
		return
	}
	order := plugin.Id()
	index := len(it.plugins)
	for index > 0 && it.plugins[index-1].Id() > order {
		index--
	}
	var dest []Plugin
	dest = append(dest, it.plugins[:index]...)
	dest = append(dest, plugin)
	dest = append(dest, it.plugins[index:]...)
	it.plugins = dest
}

func (it *Config) Factory() *Factory {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.factory == nil {
		it.factory = &Factory{config: it, local: map[int64]*Keeper{}}
	}
	return it.factory
}
