package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/skyplan/skyplan/internal/auth"
	"github.com/skyplan/skyplan/internal/catalog"
	"github.com/skyplan/skyplan/internal/health"
	"github.com/skyplan/skyplan/internal/metrics"
	"github.com/skyplan/skyplan/internal/plancache"
	"github.com/skyplan/skyplan/internal/ranking"
	"github.com/skyplan/skyplan/internal/stream"
	"github.com/skyplan/skyplan/web"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	store      *catalog.Store
	cache      *plancache.Cache
	pool       *ranking.Pool
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server.
func NewServer(addr string, store *catalog.Store, cache *plancache.Cache, pool *ranking.Pool, streamHandler *stream.Handler, logger *slog.Logger, authCfg auth.Config) *Server {
	s := &Server{
		store:  store,
		cache:  cache,
		pool:   pool,
		logger: logger,
	}

	mux := http.NewServeMux()

	// Register routes.
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz(store))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/v1/targets", s.handleTargets)
	mux.HandleFunc("GET /api/v1/visibility", s.handleVisibility)
	mux.HandleFunc("GET /api/v1/moon", s.handleMoon)
	mux.HandleFunc("GET /api/v1/interference", s.handleInterference)
	mux.HandleFunc("GET /api/v1/bestdate", s.handleBestDate)
	mux.HandleFunc("GET /api/v1/optics", s.handleOptics)
	mux.HandleFunc("GET /api/v1/tonight", s.handleTonight)
	mux.HandleFunc("GET /api/v1/stream/position", streamHandler.HandlePosition)

	// Embedded frontend at the root.
	mux.Handle("GET /", http.FileServer(http.FS(web.Content)))

	// Build middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(authCfg)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so SSE streaming works through the
// logging middleware.
func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}
