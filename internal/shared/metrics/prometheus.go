package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	evaluationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluations_created_total",
			Help: "Total number of human evaluations created",
		},
		[]string{"call_type"},
	)

	evaluationsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evaluations_updated_total",
			Help: "Total number of human evaluations updated",
		},
	)

	llmReviews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_evaluation_reviews_total",
			Help: "Total number of AI-evaluation reviews recorded",
		},
		[]string{"decision"},
	)

	transcriptionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcription_requests_total",
			Help: "Total number of transcription requests",
		},
		[]string{"status"},
	)

	cacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "call_cache_invalidations_total",
			Help: "Total number of call cache invalidations",
		},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "call_cache_lookups_total",
			Help: "Total number of call cache lookups",
		},
		[]string{"result"},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath keeps label cardinality bounded
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}
	return path
}

// --- Business metric helpers ---

// RecordEvaluationCreated records a human evaluation creation
func RecordEvaluationCreated(callType string) {
	evaluationsCreated.WithLabelValues(callType).Inc()
}

// RecordEvaluationUpdated records a human evaluation update
func RecordEvaluationUpdated() {
	evaluationsUpdated.Inc()
}

// RecordLLMReview records an AI-evaluation review decision
func RecordLLMReview(approved bool) {
	decision := "rejected"
	if approved {
		decision = "approved"
	}
	llmReviews.WithLabelValues(decision).Inc()
}

// RecordTranscription records a transcription attempt outcome
func RecordTranscription(status string) {
	transcriptionRequests.WithLabelValues(status).Inc()
}

// RecordCacheInvalidation records a call cache invalidation
func RecordCacheInvalidation() {
	cacheInvalidations.Inc()
}

// RecordCacheLookup records a call cache hit or miss
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
