package scraper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Fetches  *prometheus.CounterVec
	Duration prometheus.Histogram
	Pages    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Fetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kifu_scraper_fetches_total",
				Help: "Total number of page fetches",
			},
			[]string{"source", "status"},
		),
		Duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kifu_scraper_fetch_duration_seconds",
				Help:    "Duration of page fetches from the site in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		Pages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kifu_scraper_pages_total",
				Help: "Total number of crawled player pages",
			},
			[]string{"status"},
		),
	}
}
