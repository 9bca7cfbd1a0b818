package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresh outcomes used as the "result" label.
const (
	ResultOK        = "ok"
	ResultTransport = "transport"
	ResultParse     = "parse"
	ResultNoData    = "no_data"
)

// Metrics holds the Prometheus collectors for the dashboard.
type Metrics struct {
	Refreshes      *prometheus.CounterVec // labels: mode=bootstrap|background|manual, result
	FetchDuration  prometheus.Histogram
	Positions      prometheus.Gauge
	PortfolioValue prometheus.Gauge
	CacheLookups   *prometheus.CounterVec // labels: result=hit|miss
	AlertHits      prometheus.Counter
	StaleWrites    prometheus.Counter

	registry *prometheus.Registry
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfoliodesk_refreshes_total",
			Help: "Feed refresh attempts by mode and result",
		}, []string{"mode", "result"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portfoliodesk_fetch_duration_seconds",
			Help:    "Time spent fetching and parsing the feed",
			Buckets: prometheus.DefBuckets,
		}),
		Positions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portfoliodesk_positions",
			Help: "Positions in the current set",
		}),
		PortfolioValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portfoliodesk_portfolio_value",
			Help: "Current value of the whole portfolio",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfoliodesk_aggregate_cache_lookups_total",
			Help: "Aggregate memo table lookups",
		}, []string{"result"}),
		AlertHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfoliodesk_alert_crossings_total",
			Help: "Alert rules that started firing",
		}),
		StaleWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfoliodesk_stale_writes_total",
			Help: "Fetch results applied after a newer fetch had already landed",
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		m.Refreshes, m.FetchDuration, m.Positions, m.PortfolioValue,
		m.CacheLookups, m.AlertHits, m.StaleWrites,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
