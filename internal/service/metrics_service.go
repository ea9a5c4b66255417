package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsSnapshot is a JSON friendly summary of the process counters.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	DBQueryCount             uint64    `json:"dbQueryCount"`
	AverageDBQueryDurationMs float64   `json:"averageDbQueryDurationMs"`
	AlertsGenerated          uint64    `json:"alertsGenerated"`
	AtRiskStudents           int64     `json:"atRiskStudents"`
	DigestsSent              uint64    `json:"digestsSent"`
	DigestsFailed            uint64    `json:"digestsFailed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	alertsTotal     *prometheus.CounterVec
	atRiskGauge     prometheus.Gauge
	digestTotal     *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	dbQueryCount         uint64
	dbQueryDurationTotal uint64
	alertCount           uint64
	atRiskCount          int64
	digestSent           uint64
	digestFailed         uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database reads feeding aggregations",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	alertsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spms_alerts_generated_total",
		Help: "Alerts produced by the alert aggregators",
	}, []string{"scope", "type"})

	atRiskGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "spms_at_risk_students",
		Help: "Number of students in the last computed at-risk roster",
	})

	digestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spms_alert_digest_emails_total",
		Help: "Alert digest emails by delivery outcome",
	}, []string{"status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, dbQueryDuration, alertsTotal, atRiskGauge, digestTotal, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		dbQueryDuration: dbQueryDuration,
		alertsTotal:     alertsTotal,
		atRiskGauge:     atRiskGauge,
		digestTotal:     digestTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
	atomic.AddUint64(&m.dbQueryCount, 1)
	atomic.AddUint64(&m.dbQueryDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordAlerts counts generated alerts for a scope ("student" or "cohort") and severity.
func (m *MetricsService) RecordAlerts(scope, severity string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.alertsTotal.WithLabelValues(scope, severity).Add(float64(count))
	atomic.AddUint64(&m.alertCount, uint64(count))
}

// SetAtRisk stores the size of the latest at-risk roster.
func (m *MetricsService) SetAtRisk(count int) {
	if m == nil {
		return
	}
	m.atRiskGauge.Set(float64(count))
	atomic.StoreInt64(&m.atRiskCount, int64(count))
}

// RecordDigest counts a digest delivery outcome.
func (m *MetricsService) RecordDigest(sent bool) {
	if m == nil {
		return
	}
	if sent {
		m.digestTotal.WithLabelValues("sent").Inc()
		atomic.AddUint64(&m.digestSent, 1)
		return
	}
	m.digestTotal.WithLabelValues("failed").Inc()
	atomic.AddUint64(&m.digestFailed, 1)
}

// Snapshot returns aggregated metrics suitable for the admin summary endpoint.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	dbCount := atomic.LoadUint64(&m.dbQueryCount)
	dbDuration := atomic.LoadUint64(&m.dbQueryDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgDBMs float64
	if dbCount > 0 {
		avgDBMs = float64(dbDuration) / float64(dbCount) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		DBQueryCount:             dbCount,
		AverageDBQueryDurationMs: avgDBMs,
		AlertsGenerated:          atomic.LoadUint64(&m.alertCount),
		AtRiskStudents:           atomic.LoadInt64(&m.atRiskCount),
		DigestsSent:              atomic.LoadUint64(&m.digestSent),
		DigestsFailed:            atomic.LoadUint64(&m.digestFailed),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
