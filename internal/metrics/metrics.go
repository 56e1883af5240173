package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	HTTPRequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"method", "route"})
	InteractionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_interactions_total",
		Help: "Dashboard interactions by event and outcome (changed, unchanged, error)",
	}, []string{"event", "outcome"})
	ViewBuildDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_view_build_duration_ms",
		Help:    "Dashboard view recomputation time in milliseconds",
		Buckets: []float64{0.5, 1, 5, 10, 20, 50, 100, 200, 500},
	})
	IngestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_ingest_total",
		Help: "Uploaded files by format and result",
	}, []string{"format", "result"})
	IngestRecords = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_ingest_records",
		Help:    "Number of records per successfully ingested file",
		Buckets: prometheus.ExponentialBuckets(10, 4, 7),
	})
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_active_sessions",
		Help: "Sessions currently held by the in-memory store",
	})
	EvictedSessionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_evicted_sessions_total",
		Help: "Idle sessions removed by the janitor",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDurationMs)
	prometheus.MustRegister(InteractionsTotal)
	prometheus.MustRegister(ViewBuildDurationMs)
	prometheus.MustRegister(IngestTotal)
	prometheus.MustRegister(IngestRecords)
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(EvictedSessionsTotal)
}

// Handler отдаёт зарегистрированные метрики для /metrics
func Handler() http.Handler { return promhttp.Handler() }
