// Package metrics содержит Prometheus-метрики сервиса.
//
// Метрики собираются в переданный Registerer, глобальный реестр не используется.
// Все методы безопасны для nil-получателя, поэтому в тестах метрики можно не создавать.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	breakerState     *prometheus.GaugeVec
	degradations     *prometheus.CounterVec
	placeViews       prometheus.Counter
	reviewOperations *prometheus.CounterVec
	likeOperations   *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		upstreamRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "place_upstream_requests_total",
				Help: "Requests to external providers by provider, operation and outcome",
			},
			[]string{"provider", "operation", "outcome"},
		),
		upstreamDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "place_upstream_request_duration_seconds",
				Help:    "Latency of requests to external providers",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"provider", "operation"},
		),
		breakerState: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "place_upstream_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
		degradations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "place_degradations_total",
				Help: "Best-effort steps that failed and fell back to a default",
			},
			[]string{"step"},
		),
		placeViews: f.NewCounter(
			prometheus.CounterOpts{
				Name: "place_views_total",
				Help: "Number of place detail views recorded",
			},
		),
		reviewOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "place_review_operations_total",
				Help: "Local review writes by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		likeOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "place_like_operations_total",
				Help: "Like toggles by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "place_http_requests_total",
				Help: "HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "place_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}
}

func (m *Metrics) ObserveUpstream(provider, operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(provider, operation, outcome).Inc()
	m.upstreamDuration.WithLabelValues(provider, operation).Observe(d.Seconds())
}

func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(float64(state))
}

// Degraded отмечает best-effort шаг, завершившийся значением по умолчанию
func (m *Metrics) Degraded(step string) {
	if m == nil {
		return
	}
	m.degradations.WithLabelValues(step).Inc()
}

func (m *Metrics) PlaceViewed() {
	if m == nil {
		return
	}
	m.placeViews.Inc()
}

func (m *Metrics) ReviewOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.reviewOperations.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *Metrics) LikeOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.likeOperations.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *Metrics) ObserveHTTP(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
