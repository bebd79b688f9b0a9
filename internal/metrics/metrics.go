// Package metrics provides Prometheus instrumentation for Group Order Hub.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the application.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestsTotal counts HTTP requests by method, route and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes request latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec

	// PersistWritesTotal counts snapshot writes to the data file.
	PersistWritesTotal prometheus.Counter

	// PersistWriteFailuresTotal counts failed snapshot writes. The store
	// keeps serving in-memory state after a failed write, so a non-zero
	// value here means the on-disk snapshot is stale.
	PersistWriteFailuresTotal prometheus.Counter

	// PromotionRunsTotal counts promotion batch runs.
	PromotionRunsTotal prometheus.Counter

	// PromotionDeletedTotal counts users graduated out (deleted) by
	// promotion runs.
	PromotionDeletedTotal prometheus.Counter

	// BackupRunsTotal counts snapshot backup attempts by outcome.
	BackupRunsTotal *prometheus.CounterVec
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grouporder_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grouporder_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		PersistWritesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "grouporder_persist_writes_total",
			Help: "Total number of data file writes.",
		}),
		PersistWriteFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "grouporder_persist_write_failures_total",
			Help: "Total number of failed data file writes.",
		}),
		PromotionRunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "grouporder_promotion_runs_total",
			Help: "Total number of promotion batch runs.",
		}),
		PromotionDeletedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "grouporder_promotion_deleted_total",
			Help: "Total number of users graduated out by promotion.",
		}),
		BackupRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grouporder_backup_runs_total",
			Help: "Total number of snapshot backup attempts.",
		}, []string{"outcome"}),
	}
}

// Handler returns an HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordWrite records a data file write attempt.
func (m *Metrics) RecordWrite(err error) {
	if m == nil {
		return
	}
	m.PersistWritesTotal.Inc()
	if err != nil {
		m.PersistWriteFailuresTotal.Inc()
	}
}

// RecordPromotion records a promotion run.
func (m *Metrics) RecordPromotion(deleted int) {
	if m == nil {
		return
	}
	m.PromotionRunsTotal.Inc()
	m.PromotionDeletedTotal.Add(float64(deleted))
}

// RecordBackup records a backup attempt.
func (m *Metrics) RecordBackup(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.BackupRunsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.BackupRunsTotal.WithLabelValues("success").Inc()
}
