package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, vec.WithLabelValues(labels...).Write(metric))
	return metric.Counter.GetValue()
}

func histogramCount(t *testing.T, vec *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	metric := &dto.Metric{}
	observer := vec.WithLabelValues(labels...)
	require.NoError(t, observer.(prometheus.Histogram).Write(metric))
	return metric.Histogram.GetSampleCount()
}

func TestObserveOperation(t *testing.T) {
	m := NewCartMetricsWithRegisterer(prometheus.NewRegistry())

	m.ObserveOperation("create", nil, 20*time.Millisecond)
	m.ObserveOperation("create", nil, 30*time.Millisecond)
	m.ObserveOperation("create", errors.New("boom"), 10*time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, m.operations, "create", ResultSuccess))
	assert.Equal(t, 1.0, counterValue(t, m.operations, "create", ResultFailure))
	assert.Equal(t, uint64(3), histogramCount(t, m.operationDuration, "create"))
}

func TestRecordValidationRejected(t *testing.T) {
	m := NewCartMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordValidationRejected("product_not_found")
	m.RecordValidationRejected("product_not_found")
	m.RecordValidationRejected("discount_period_invalid")

	assert.Equal(t, 2.0, counterValue(t, m.validationRejects, "product_not_found"))
	assert.Equal(t, 1.0, counterValue(t, m.validationRejects, "discount_period_invalid"))
}

func TestObserveUpstream(t *testing.T) {
	m := NewCartMetricsWithRegisterer(prometheus.NewRegistry())

	m.ObserveUpstream("catalog", "ok", 5*time.Millisecond)
	m.ObserveUpstream("catalog", "not_found", 5*time.Millisecond)
	m.ObserveUpstream("discount", "error", 5*time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, m.upstreamRequests, "catalog", "ok"))
	assert.Equal(t, 1.0, counterValue(t, m.upstreamRequests, "catalog", "not_found"))
	assert.Equal(t, 1.0, counterValue(t, m.upstreamRequests, "discount", "error"))
	assert.Equal(t, uint64(2), histogramCount(t, m.upstreamDuration, "catalog"))
}

func TestRegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewCartMetricsWithRegisterer(reg)
	second := NewCartMetricsWithRegisterer(reg)

	first.ObserveOperation("delete", nil, time.Millisecond)
	second.ObserveOperation("delete", nil, time.Millisecond)

	assert.Same(t, first.operations, second.operations)
	assert.Equal(t, 2.0, counterValue(t, first.operations, "delete", ResultSuccess))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *CartMetrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("read", nil, time.Millisecond)
		m.RecordValidationRejected("customer_not_found")
		m.ObserveUpstream("catalog", "ok", time.Millisecond)
	})
}

func TestObserveHTTPRequest(t *testing.T) {
	m := NewCartMetricsWithRegisterer(prometheus.NewRegistry())

	m.ObserveHTTPRequest("POST", "/api/v1/customer/:user/cart", 201, 5*time.Millisecond)
	m.ObserveHTTPRequest("POST", "/api/v1/customer/:user/cart", 400, 2*time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, m.httpRequests, "POST", "/api/v1/customer/:user/cart", "201"))
	assert.Equal(t, 1.0, counterValue(t, m.httpRequests, "POST", "/api/v1/customer/:user/cart", "400"))
	assert.Equal(t, uint64(2), histogramCount(t, m.httpDuration, "POST", "/api/v1/customer/:user/cart"))

	var nilMetrics *CartMetrics
	nilMetrics.ObserveHTTPRequest("GET", "/healthz", 200, time.Millisecond)
}
