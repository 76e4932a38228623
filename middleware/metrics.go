package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthOutcomes counts register/login/logout/resolve outcomes.
	AuthOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vchartered_auth_outcomes_total",
		Help: "Authentication operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	// GenerationRequests counts calls to the generation service, retries included.
	GenerationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vchartered_generation_requests_total",
		Help: "Generation service calls by feature and outcome.",
	}, []string{"feature", "outcome"})

	// DroppedWrites counts best-effort log/result writes that failed.
	DroppedWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vchartered_dropped_writes_total",
		Help: "Best-effort writes swallowed after a storage failure.",
	}, []string{"table"})
)

// PrometheusMiddleware records request count and latency per route template.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
