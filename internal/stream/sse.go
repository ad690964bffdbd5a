// Package stream implements Server-Sent Events (SSE) streaming of live
// target positions. Clients connect via GET /api/v1/stream/position and
// receive the target's horizontal coordinates recomputed on a fixed cadence.
//
// SSE message format:
//
//	data: {"type":"position","t":"2026-08-26T04:00:00Z","target":"m31","alt_deg":54.2,"az_deg":78.1,"darkness":"night"}\n\n
//
// First message is always metadata:
//
//	data: {"type":"metadata","target":"m31","name":"Andromeda Galaxy","approximate":false,"catalog_age_seconds":1800}\n\n
//
// Keep-alive comments (:\n\n) are sent every KeepaliveInterval to prevent
// timeout. Reconnecting clients receive a fresh metadata message on each
// connection.
package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/skyplan/skyplan/internal/catalog"
	"github.com/skyplan/skyplan/internal/ephemeris"
	"github.com/skyplan/skyplan/internal/metrics"
	"github.com/skyplan/skyplan/internal/transform"
)

// Config holds streaming configuration loaded from environment variables.
type Config struct {
	MaxConcurrentPerIP int           // Max concurrent streams per IP (default: 10).
	KeepaliveInterval  time.Duration // Keep-alive ping interval (default: 30s).
}

// Handler manages SSE streaming connections.
type Handler struct {
	store   *catalog.Store
	config  Config
	limiter *streamLimiter
	logger  *slog.Logger
}

// NewHandler creates a new streaming handler.
func NewHandler(store *catalog.Store, config Config, logger *slog.Logger) *Handler {
	return &Handler{
		store:   store,
		config:  config,
		limiter: newStreamLimiter(config.MaxConcurrentPerIP),
		logger:  logger,
	}
}

// HandlePosition serves the SSE live position stream.
// GET /api/v1/stream/position?target=m31&lat=47.6&lon=-122.3&step=5
func (h *Handler) HandlePosition(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tgt, ok := h.store.Find(q.Get("target"))
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "unknown target"})
		return
	}

	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	loc := transform.Location{LatDeg: lat, LonDeg: lon}
	if errLat != nil || errLon != nil || transform.ValidateLocation(loc) != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid lat/lon parameters"})
		return
	}

	step := 5
	if v := q.Get("step"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 60 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid step parameter, must be 1-60"})
			return
		}
		step = n
	}

	// Rate limiting: enforce concurrent stream limit per IP.
	ip := clientIP(r)
	if !h.limiter.acquire(ip) {
		metrics.IncStreamErrors("rate_limit")
		h.logger.Warn("stream rate limit exceeded",
			"remote_ip", ip,
			"current_count", h.limiter.count(ip),
		)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"error": "too many concurrent streams"})
		return
	}

	metrics.IncStreamsActive()

	startTime := time.Now()
	h.logger.Info("stream connected",
		"remote_ip", ip,
		"user_agent", r.Header.Get("User-Agent"),
		"target", tgt.ID,
		"step", step,
	)

	// Cleanup on disconnect: release rate limit slot and update metrics.
	defer func() {
		h.limiter.release(ip)
		metrics.DecStreamsActive()
		h.logger.Info("stream disconnected",
			"remote_ip", ip,
			"target", tgt.ID,
			"duration_seconds", int(time.Since(startTime).Seconds()),
		)
	}()

	// Verify flusher support (required for SSE).
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "streaming not supported"})
		return
	}

	// Set SSE response headers.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering.
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Use ResponseController to manage write deadlines for long-lived SSE.
	// Clear the server's default WriteTimeout for this connection.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("could not clear write deadline", "error", err)
	}

	c := &client{
		w:       w,
		flusher: flusher,
		rc:      rc,
		ip:      ip,
		logger:  h.logger,
	}

	// Send jittered retry interval (3-7s) to prevent thundering-herd
	// reconnection storms when the server restarts.
	retryMs := 3000 + rand.Intn(4000)
	fmt.Fprintf(w, "retry: %d\n\n", retryMs)
	flusher.Flush()

	// Send metadata message (first message on every connection).
	_, resolved := tgt.Position(time.Now().UTC())
	meta := metadataMessage{
		Type:        "metadata",
		Target:      tgt.ID,
		Name:        tgt.Name,
		Approximate: !resolved,
		CatalogAge:  int(h.store.AgeSeconds()),
	}
	if err := c.sendJSON(meta); err != nil {
		metrics.IncStreamErrors("send_error")
		h.logger.Warn("stream send error (metadata)", "remote_ip", ip, "error", err)
		return
	}

	// First position immediately, then on the requested cadence.
	if err := c.sendJSON(buildPositionMessage(tgt, loc, time.Now().UTC())); err != nil {
		metrics.IncStreamErrors("send_error")
		h.logger.Warn("stream send error", "remote_ip", ip, "error", err)
		return
	}

	ticker := time.NewTicker(time.Duration(step) * time.Second)
	defer ticker.Stop()

	keepaliveTicker := time.NewTicker(h.config.KeepaliveInterval)
	defer keepaliveTicker.Stop()

	ctx := r.Context()

	for {
		select {
		case <-ctx.Done():
			return

		case t := <-ticker.C:
			if err := c.sendJSON(buildPositionMessage(tgt, loc, t.UTC())); err != nil {
				metrics.IncStreamErrors("send_error")
				h.logger.Warn("stream send error", "remote_ip", ip, "error", err)
				return
			}

			// Reset keepalive since we just sent data.
			keepaliveTicker.Reset(h.config.KeepaliveInterval)

		case <-keepaliveTicker.C:
			if err := c.sendKeepalive(); err != nil {
				metrics.IncStreamErrors("send_error")
				h.logger.Warn("stream keepalive error", "remote_ip", ip, "error", err)
				return
			}
		}
	}
}

// buildPositionMessage computes the target's horizontal coordinates and the
// sky darkness at the given instant.
func buildPositionMessage(tgt catalog.Target, loc transform.Location, at time.Time) positionMessage {
	eq, _ := tgt.Position(at)
	hz := transform.HorizontalAt(eq, loc, at)
	dark := ephemeris.ClassifyDarkness(ephemeris.SunAltitude(loc, at))

	return positionMessage{
		Type:     "position",
		T:        at.Format(time.RFC3339),
		Target:   tgt.ID,
		AltDeg:   hz.AltDeg,
		AzDeg:    hz.AzDeg,
		Darkness: dark.String(),
	}
}

// SSE message payload types.

type metadataMessage struct {
	Type        string `json:"type"`
	Target      string `json:"target"`
	Name        string `json:"name"`
	Approximate bool   `json:"approximate"`
	CatalogAge  int    `json:"catalog_age_seconds"`
}

type positionMessage struct {
	Type     string  `json:"type"`
	T        string  `json:"t"`
	Target   string  `json:"target"`
	AltDeg   float64 `json:"alt_deg"`
	AzDeg    float64 `json:"az_deg"`
	Darkness string  `json:"darkness"`
}
