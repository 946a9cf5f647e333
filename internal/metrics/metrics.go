// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	EventsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_imported_total",
			Help: "Total number of event import transitions",
		},
	)

	LeadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Total number of ticket leads captured",
		},
		[]string{"kind"}, // "event", "direct"
	)

	DashboardQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_queries_total",
			Help: "Total number of dashboard queries by view",
		},
		[]string{"view"}, // "public", "admin"
	)
)

// RecordLead counts a captured lead
func RecordLead(direct bool) {
	kind := "event"
	if direct {
		kind = "direct"
	}
	LeadsCaptured.WithLabelValues(kind).Inc()
}

// RecordDashboardQuery counts a dashboard query
func RecordDashboardQuery(admin bool) {
	view := "public"
	if admin {
		view = "admin"
	}
	DashboardQueries.WithLabelValues(view).Inc()
}

// GinMiddleware records request count and latency per matched route
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
