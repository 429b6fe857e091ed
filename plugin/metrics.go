package plugin

import (
	"github.com/avicd/go-kifu/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Queries  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Rows     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Queries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kifu_db_queries_total",
				Help: "Total number of mapper statements executed",
			},
			[]string{"statement", "type", "status"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kifu_db_query_duration_seconds",
				Help:    "Duration of mapper statements in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"statement", "type"},
		),
		Rows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kifu_db_rows_affected_total",
				Help: "Total number of rows changed by mapper statements",
			},
			[]string{"statement", "type"},
		),
	}
}

// Install registers the plugins observing successful and failed
// statements of config.
func (it *Metrics) Install(config *session.Config) {
	config.AddPlugin(&Func{Seq: 100, On: session.SqlQuery, At: session.After, Apply: it.observe})
	config.AddPlugin(&Func{Seq: 100, On: session.Failed, At: session.After, Apply: it.fail})
}

func (it *Metrics) observe(payload *session.Payload) bool {
	id, tp := payload.Stmt.Id, typeOf(payload.Stmt)
	it.Queries.WithLabelValues(id, tp, "ok").Inc()
	it.Duration.WithLabelValues(id, tp).Observe(payload.Elapsed.Seconds())
	if payload.RowsAffected > 0 {
		it.Rows.WithLabelValues(id, tp).Add(float64(payload.RowsAffected))
	}
	return true
}

func (it *Metrics) fail(payload *session.Payload) bool {
	it.Queries.WithLabelValues(payload.Stmt.Id, typeOf(payload.Stmt), "error").Inc()
	return true
}
