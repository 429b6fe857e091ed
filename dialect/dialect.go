package dialect

import (
	"strconv"
	"strings"
)

type Dialect interface {
	Name() string
	// Rebind rewrites `?` placeholders outside quoted text into the
	// placeholder style of the dialect.
	Rebind(query string) string
	// LastInsertId reports whether sql.Result.LastInsertId is supported.
	LastInsertId() bool
}

type dialect struct {
	name     string
	numbered bool
	lastId   bool
}

var (
	SQLite   Dialect = &dialect{name: "sqlite", lastId: true}
	Postgres Dialect = &dialect{name: "postgres", numbered: true}
)

// drivers holds the names registered by the drivers the store imports.
var drivers = map[string]Dialect{
	"sqlite3": SQLite,
	"pgx":     Postgres,
	"pgx/v5":  Postgres,
}

// ByDriver resolves the dialect of a database/sql driver name.
func ByDriver(driver string) (Dialect, bool) {
	d, ok := drivers[strings.ToLower(driver)]
	return d, ok
}

func (it *dialect) Name() string {
	return it.name
}

func (it *dialect) LastInsertId() bool {
	return it.lastId
}

func (it *dialect) Rebind(query string) string {
	if !it.numbered || strings.IndexByte(query, '?') < 0 {
		return query
	}
	var buf strings.Builder
	buf.Grow(len(query) + 8)
	n := 0
	var quote rune
	for _, c := range query {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			n++
			buf.WriteString("$" + strconv.Itoa(n))
			continue
		}
		buf.WriteRune(c)
	}
	return buf.String()
}
