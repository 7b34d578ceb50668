// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors the dashboard records.
type Metrics struct {
	registry *prometheus.Registry

	// QueryDuration observes report query latency per database and report.
	QueryDuration *prometheus.HistogramVec

	// QueriesTotal counts report queries per database and outcome.
	QueriesTotal *prometheus.CounterVec

	// DatabaseUp tracks each backing store's last health probe result.
	DatabaseUp *prometheus.GaugeVec
}

// New creates the metric set on a fresh registry, including the standard
// Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		QueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dashboard",
			Name:      "query_duration_seconds",
			Help:      "Report query latency by database and report.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "report"}),
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "queries_total",
			Help:      "Report queries by database and outcome.",
		}, []string{"database", "status"}),
		DatabaseUp: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dashboard",
			Name:      "database_up",
			Help:      "Whether the backing store answered its last health probe.",
		}, []string{"database"}),
	}
}

// Handler returns the /metrics HTTP handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveQuery records one report query observation.
func (m *Metrics) ObserveQuery(database, report string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.QueryDuration.WithLabelValues(database, report).Observe(d.Seconds())
	m.QueriesTotal.WithLabelValues(database, status).Inc()
}

// SetDatabaseUp records a health probe result for a backing store.
func (m *Metrics) SetDatabaseUp(database string, up bool) {
	v := 0.0
	if up {
		v = 1.0
	}
	m.DatabaseUp.WithLabelValues(database).Set(v)
}
