package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGatewayMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewGatewayMetrics(reg)

	m.ObserveRequest("GET", OutcomeOK, 0.1)
	m.ObserveRequest("GET", OutcomeOK, 0.2)
	m.ObserveRequest("PATCH", OutcomeValidation, 0.1)
	m.ObserveRetry()
	m.ObserveRefresh(RefreshResultOK)
	m.ObserveScheduledRefresh(ScheduledResultIdle)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("PATCH", OutcomeValidation)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RetriesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefreshesTotal.WithLabelValues(RefreshResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScheduledRefreshes.WithLabelValues(ScheduledResultIdle)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestNilGatewayMetrics(t *testing.T) {
	var m *GatewayMetrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", OutcomeOK, 0.1)
		m.ObserveRetry()
		m.ObserveRefresh(RefreshResultFailed)
		m.ObserveScheduledRefresh(ScheduledResultFailed)
	})
}
