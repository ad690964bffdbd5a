package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyplan_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skyplan_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyplan_evaluations_total",
			Help: "Total number of night evaluations by kind.",
		},
		[]string{"kind"},
	)

	rankingDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skyplan_ranking_duration_seconds",
			Help:    "Duration of full-catalog ranking runs in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	catalogTargets = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skyplan_catalog_targets",
			Help: "Number of targets in the loaded catalog.",
		},
	)

	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skyplan_plan_cache_hits_total",
			Help: "Plan cache hits.",
		},
	)

	cacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skyplan_plan_cache_misses_total",
			Help: "Plan cache misses.",
		},
	)

	cacheEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skyplan_plan_cache_evictions_total",
			Help: "Plan cache entries evicted.",
		},
	)

	cacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skyplan_plan_cache_entries",
			Help: "Current number of plan cache entries.",
		},
	)

	streamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skyplan_streams_active",
			Help: "Currently connected SSE position streams.",
		},
	)

	streamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyplan_stream_errors_total",
			Help: "SSE stream errors by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpDurationSeconds,
		evaluationsTotal,
		rankingDurationSeconds,
		catalogTargets,
		cacheHitsTotal,
		cacheMissesTotal,
		cacheEvictionsTotal,
		cacheEntries,
		streamsActive,
		streamErrorsTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncEvaluations records completed night evaluations of the given kind
// (visibility, interference, bestdate, optics).
func IncEvaluations(kind string) { evaluationsTotal.WithLabelValues(kind).Inc() }

// ObserveRankingDuration records one full-catalog ranking run.
func ObserveRankingDuration(d time.Duration) { rankingDurationSeconds.Observe(d.Seconds()) }

// SetCatalogTargets publishes the loaded catalog size.
func SetCatalogTargets(n int) { catalogTargets.Set(float64(n)) }

// IncCacheHits records a plan cache hit.
func IncCacheHits() { cacheHitsTotal.Inc() }

// IncCacheMisses records a plan cache miss.
func IncCacheMisses() { cacheMissesTotal.Inc() }

// AddCacheEvictions records evicted plan cache entries.
func AddCacheEvictions(n int) { cacheEvictionsTotal.Add(float64(n)) }

// SetCacheEntries publishes the current plan cache size.
func SetCacheEntries(n int) { cacheEntries.Set(float64(n)) }

// IncStreamsActive tracks an SSE connection opening.
func IncStreamsActive() { streamsActive.Inc() }

// DecStreamsActive tracks an SSE connection closing.
func DecStreamsActive() { streamsActive.Dec() }

// IncStreamErrors records an SSE error by reason.
func IncStreamErrors(reason string) { streamErrorsTotal.WithLabelValues(reason).Inc() }

// knownRoutes are the exact paths exposed by the server. Anything else is
// collapsed to "other" so bots scanning for /wp-admin cannot explode the
// label cardinality.
var knownRoutes = map[string]bool{
	"/":                       true,
	"/index.html":             true,
	"/app.js":                 true,
	"/styles.css":             true,
	"/healthz":                true,
	"/readyz":                 true,
	"/metrics":                true,
	"/api/v1/targets":         true,
	"/api/v1/visibility":      true,
	"/api/v1/moon":            true,
	"/api/v1/interference":    true,
	"/api/v1/bestdate":        true,
	"/api/v1/optics":          true,
	"/api/v1/tonight":         true,
	"/api/v1/stream/position": true,
}

// normalizeRoute maps a request path to a bounded metric label.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	// Static assets served from the embedded frontend.
	if strings.HasPrefix(path, "/static/") {
		return "/static/"
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so SSE streaming keeps working
// through the middleware chain.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
