package plugin

import (
	"database/sql"
	"github.com/avicd/go-kifu"
	"github.com/avicd/go-kifu/builder"
	"github.com/avicd/go-kifu/expr"
	"github.com/avicd/go-kifu/session"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"
)

func openKifu(t *testing.T) *kifu.Kifu {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "plugin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec("CREATE TABLE stones (id INTEGER PRIMARY KEY, color TEXT NOT NULL)")
	require.NoError(t, err)
	config := &session.Config{}
	config.SetMainDB(db)
	return kifu.New(config, &builder.XmlBuilder{FS: fstest.MapFS{}})
}

func TestMetrics(t *testing.T) {
	ins := openKifu(t)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	metrics.Install(ins.Config)

	_, err := ins.Exec(expr.InsertInto("stones").Columns("color").Values("black").Values("white"))
	require.NoError(t, err)
	var colors []string
	require.NoError(t, ins.Select(&colors, expr.Select("color").From("stones")))
	_, err = ins.Exec(expr.InsertInto("missing").Set("color", "black"))
	require.Error(t, err)

	id := session.NameSpace + ".expr"
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Queries.WithLabelValues(id, "insert", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Queries.WithLabelValues(id, "select", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Queries.WithLabelValues(id, "insert", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Rows.WithLabelValues(id, "insert")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.Duration))
}

func TestSlowLog(t *testing.T) {
	ins := openKifu(t)
	var slow []string
	(&SlowLog{
		Threshold: time.Nanosecond,
		Slow:      func(id string, elapsed time.Duration) { slow = append(slow, id) },
	}).Install(ins.Config)

	var count int
	require.NoError(t, ins.Select(&count, expr.Select().From("stones").Count()))
	assert.Equal(t, []string{session.NameSpace + ".expr"}, slow)
}

func TestFuncOrder(t *testing.T) {
	ins := openKifu(t)
	var calls []int
	add := func(seq int, cont bool) {
		ins.Config.AddPlugin(&Func{Seq: seq, On: session.ProcessArgs, At: session.Before, Apply: func(*session.Payload) bool {
			calls = append(calls, seq)
			return cont
		}})
	}
	add(3, true)
	add(1, true)
	add(2, false)

	var count int
	require.NoError(t, ins.Select(&count, expr.Select().From("stones").Count()))
	assert.Equal(t, []int{1, 2}, calls)
}
