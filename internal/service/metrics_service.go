package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

// MetricsSnapshot is a lightweight summary exposed on the health endpoint.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	ReservationsSaved        uint64    `json:"reservations_saved"`
	AuditEntriesWritten      uint64    `json:"audit_entries_written"`
	CarryForwards            uint64    `json:"carry_forwards"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic and
// the reservation workflow.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	reservationsSaved *prometheus.CounterVec
	auditEntries      *prometheus.CounterVec
	carryForwards     *prometheus.CounterVec
	backups           *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	savedCount           uint64
	auditCount           uint64
	carryCount           uint64
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

	reservationsSaved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "meal_reservations_saved_total",
		Help: "Reservations written, by mutation path",
	}, []string{"path"})

	auditEntries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_entries_written_total",
		Help: "Change log rows appended, by table",
	}, []string{"table"})

	carryForwards := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deadline_carry_forward_total",
		Help: "Requested slot values discarded because the slot was locked",
	}, []string{"slot"})

	backups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backups_total",
		Help: "Database snapshot attempts, by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, reservationsSaved, auditEntries, carryForwards, backups, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		reservationsSaved: reservationsSaved,
		auditEntries:      auditEntries,
		carryForwards:     carryForwards,
		backups:           backups,
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

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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

// RecordReservationSaved counts stored reservations for a mutation path.
func (m *MetricsService) RecordReservationSaved(path string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reservationsSaved.WithLabelValues(path).Add(float64(n))
	atomic.AddUint64(&m.savedCount, uint64(n))
}

// RecordAuditEntries counts appended change log rows.
func (m *MetricsService) RecordAuditEntries(table string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.auditEntries.WithLabelValues(table).Add(float64(n))
	atomic.AddUint64(&m.auditCount, uint64(n))
}

// RecordCarryForward counts a locked slot whose requested value was discarded.
func (m *MetricsService) RecordCarryForward(slot models.MealSlot) {
	if m == nil {
		return
	}
	m.carryForwards.WithLabelValues(string(slot)).Inc()
	atomic.AddUint64(&m.carryCount, 1)
}

// RecordBackup counts a snapshot attempt.
func (m *MetricsService) RecordBackup(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.backups.WithLabelValues(result).Inc()
}

// Snapshot returns aggregated counters for the health endpoint.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		ReservationsSaved:        atomic.LoadUint64(&m.savedCount),
		AuditEntriesWritten:      atomic.LoadUint64(&m.auditCount),
		CarryForwards:            atomic.LoadUint64(&m.carryCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
