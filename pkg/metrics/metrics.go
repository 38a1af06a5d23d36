// Package metrics provides Prometheus metrics for hrflow-connectors.
// It defines counters and histograms for the pull and push flows plus the
// underlying HTTP transport, registered automatically on the default
// registry.
//
// Basic usage:
//
//	metrics.RecordsPulled.WithLabelValues("smartrecruiters", "job").Inc()
//	metrics.PagesFetched.WithLabelValues("taleez").Inc()
//	metrics.WriteOutcomes.WithLabelValues("breezyhr", "created").Inc()
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsPulled counts records read from vendor APIs, labeled by
	// vendor and record kind.
	RecordsPulled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrflow_records_pulled_total",
			Help: "Total records pulled from vendor APIs",
		},
		[]string{"vendor", "kind"},
	)

	// PagesFetched counts listing pages fetched per vendor.
	PagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrflow_pages_fetched_total",
			Help: "Total listing pages fetched from vendor APIs",
		},
		[]string{"vendor"},
	)

	// WriteOutcomes counts push outcomes per vendor and status
	// (created, updated, failed).
	WriteOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrflow_write_outcomes_total",
			Help: "Total push outcomes per status",
		},
		[]string{"vendor", "status"},
	)

	// MappingFailures counts records that failed canonical mapping.
	MappingFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrflow_mapping_failures_total",
			Help: "Total records that failed field mapping",
		},
		[]string{"vendor", "direction"},
	)

	// HTTPRequestDuration observes vendor HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hrflow_http_request_duration_seconds",
			Help:    "Vendor HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "host", "status"},
	)

	// HTTPRequestsTotal counts vendor HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrflow_http_requests_total",
			Help: "Total vendor HTTP requests",
		},
		[]string{"method", "host", "status"},
	)
)

// RecordHTTPRequest records one transport-level request. A status of 0 marks
// a request that failed before a response arrived.
func RecordHTTPRequest(method, host string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	HTTPRequestsTotal.WithLabelValues(method, host, label).Inc()
	HTTPRequestDuration.WithLabelValues(method, host, label).Observe(duration.Seconds())
}

// Timer measures the duration of a single operation.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed time since the timer started.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
