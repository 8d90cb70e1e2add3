package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the Prometheus metrics for the HTTP surface and the
// state backend. A nil *Collector is valid and records nothing.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	stateOpsTotal   *prometheus.CounterVec
	stateOpDuration *prometheus.HistogramVec
}

// NewCollector creates a collector registered on the default registry.
func NewCollector() *Collector {
	return NewCollectorWith(prometheus.DefaultRegisterer)
}

// NewCollectorWith creates a collector registered on reg.
func NewCollectorWith(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statebridge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "statebridge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "path"},
		),
		stateOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statebridge_state_operations_total",
				Help: "Total number of state backend operations",
			},
			[]string{"operation", "outcome"},
		),
		stateOpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "statebridge_state_operation_duration_seconds",
				Help:    "State backend operation duration in seconds",
				Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 2},
			},
			[]string{"operation"},
		),
	}
}

// RecordRequest records one handled HTTP request.
func (c *Collector) RecordRequest(method, path string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordStateOperation records one state backend call and its outcome
// ("ok", "missing" or "error").
func (c *Collector) RecordStateOperation(operation, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.stateOpsTotal.WithLabelValues(operation, outcome).Inc()
	c.stateOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
