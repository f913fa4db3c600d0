// Package metrics exposes Prometheus collectors for the HTTP surface and the
// lead lifecycle.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	lifecycleTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_lifecycle_transitions_total",
			Help: "Lead lifecycle actions applied, by action",
		},
		[]string{"action"},
	)

	importedRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_import_rows_total",
			Help: "Rows processed by bulk import, by outcome",
		},
		[]string{"outcome"},
	)

	dispatchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_dispatch_errors_total",
			Help: "Failed calls to outbound collaborators",
		},
		[]string{"target"},
	)
)

// Middleware records request counts and latency keyed by the matched route
// template, so path parameters do not explode label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// RecordTransition counts one lifecycle action such as message_approved.
func RecordTransition(action string) {
	lifecycleTransitions.WithLabelValues(action).Inc()
}

// RecordImport counts valid and rejected import rows.
func RecordImport(valid, rejected int) {
	importedRows.WithLabelValues("valid").Add(float64(valid))
	importedRows.WithLabelValues("rejected").Add(float64(rejected))
}

// RecordDispatchError counts a failed call to the generator webhook or a sender.
func RecordDispatchError(target string) {
	dispatchErrors.WithLabelValues(target).Inc()
}
