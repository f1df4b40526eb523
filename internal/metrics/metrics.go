// Package metrics holds the prometheus metrics of the API client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "phil"

// Outcomes used for the requests_total counter
const (
	OutcomeOK             = "ok"
	OutcomeNetwork        = "network"
	OutcomeUnauthorized   = "unauthorized"
	OutcomeValidation     = "validation"
	OutcomeServer         = "server"
	OutcomeTimeout        = "timeout"
	RefreshResultOK       = "ok"
	RefreshResultFailed   = "failed"
	RefreshResultSkipped  = "skipped"
	ScheduledResultIdle   = "idle"
	ScheduledResultDone   = "refreshed"
	ScheduledResultFailed = "failed"
)

// GatewayMetrics is safe to use through a nil pointer, in which case nothing is recorded.
type GatewayMetrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	RetriesTotal       prometheus.Counter
	RefreshesTotal     *prometheus.CounterVec
	ScheduledRefreshes *prometheus.CounterVec
}

// NewGatewayMetrics creates and registers all metrics with the given registry.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	return &GatewayMetrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Total number of logical backend calls",
			},
			[]string{"method", "outcome"},
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Duration of logical backend calls including a retry",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		RetriesTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "retries_total",
				Help:      "Total number of calls replayed after a token refresh",
			},
		),
		RefreshesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "refreshes_total",
				Help:      "Total number of shared token refreshes",
			},
			[]string{"result"},
		),
		ScheduledRefreshes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "token_refresher",
				Name:      "runs_total",
				Help:      "Total number of periodic refresh checks",
			},
			[]string{"result"},
		),
	}
}

func (m *GatewayMetrics) ObserveRequest(method, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, outcome).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(seconds)
}

func (m *GatewayMetrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

func (m *GatewayMetrics) ObserveRefresh(result string) {
	if m == nil {
		return
	}
	m.RefreshesTotal.WithLabelValues(result).Inc()
}

func (m *GatewayMetrics) ObserveScheduledRefresh(result string) {
	if m == nil {
		return
	}
	m.ScheduledRefreshes.WithLabelValues(result).Inc()
}
