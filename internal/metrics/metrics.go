// Package metrics exposes Prometheus collectors for the HTTP layer, the
// matcher and background jobs.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "candidate_search",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "candidate_search",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "candidate_search",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "candidate_search",
			Subsystem: "matcher",
			Name:      "searches_total",
			Help:      "Total number of candidate searches by matcher mode.",
		},
		[]string{"mode", "cached"},
	)

	searchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "candidate_search",
			Subsystem: "matcher",
			Name:      "result_count",
			Help:      "Number of candidates a search returned before pagination.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8), // 1 to ~16k
		},
		[]string{"mode"},
	)

	searchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "candidate_search",
			Subsystem: "matcher",
			Name:      "search_duration_seconds",
			Help:      "Duration of candidate searches.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"mode"},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "candidate_search",
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Total number of finished background jobs.",
		},
		[]string{"type", "status"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "candidate_search",
			Subsystem: "jobs",
			Name:      "run_duration_seconds",
			Help:      "Duration of background jobs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"type"},
	)

	poolCandidates = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "candidate_search",
			Subsystem: "pools",
			Name:      "candidates",
			Help:      "Number of candidates stored per pool.",
		},
		[]string{"pool"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		searches,
		searchResults,
		searchDuration,
		jobRuns,
		jobDuration,
		poolCandidates,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts, durations and in-flight requests.
// Routes are labelled by their gin pattern so path parameters do not
// explode label cardinality.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := strings.ToUpper(c.Request.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordSearch records one finished search.
func RecordSearch(mode string, resultCount int, duration time.Duration, cached bool) {
	if mode == "" {
		mode = "unknown"
	}
	searches.WithLabelValues(mode, strconv.FormatBool(cached)).Inc()
	searchResults.WithLabelValues(mode).Observe(float64(resultCount))
	searchDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordJob records a background job that reached a final status.
func RecordJob(jobType, status string, duration time.Duration) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	jobRuns.WithLabelValues(jobType, status).Inc()
	jobDuration.WithLabelValues(jobType).Observe(duration.Seconds())
}

// SetPoolSize publishes the candidate count of a pool.
func SetPoolSize(pool string, count int) {
	poolCandidates.WithLabelValues(pool).Set(float64(count))
}

// ForgetPool drops the gauge of a deleted or renamed pool.
func ForgetPool(pool string) {
	poolCandidates.DeleteLabelValues(pool)
}
