package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsRecorder exports operation durations and outcome counters
// as Prometheus collectors.
type PrometheusMetricsRecorder struct {
	durations *prometheus.HistogramVec
	results   *prometheus.CounterVec
}

// NewPrometheusMetricsRecorder builds a recorder and registers its collectors
// with the supplied registerer. A nil registerer falls back to the default
// registry.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "landledger",
		Subsystem: "service",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger service operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "landledger",
		Subsystem: "service",
		Name:      "operation_results_total",
		Help:      "Count of ledger service operation outcomes by status.",
	}, []string{"operation", "status"})
	for _, collector := range []prometheus.Collector{durations, results} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return &PrometheusMetricsRecorder{durations: durations, results: results}, nil
}

// Observe implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
	r.results.WithLabelValues(operation, status).Inc()
}
