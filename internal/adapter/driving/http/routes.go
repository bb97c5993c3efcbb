package httphandler

import (
	"log/slog"
	"net/http"
)

// RegisterAPIRoutes registers all REST API routes on mux. Capture routes are
// wrapped with limiter when it is non-nil.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler, limiter *RateLimiter) {
	capture := http.HandlerFunc(h.Capture)
	if limiter != nil {
		capture = limiter.Limit(capture)
	}

	mux.Handle("POST /api/v1/captures/{form}", capture)
	mux.HandleFunc("GET /api/v1/captures", h.ListCaptures)
	mux.HandleFunc("GET /api/v1/captures/stats", h.CaptureStats)
	mux.HandleFunc("GET /api/v1/panels", h.GetPanels)
	mux.HandleFunc("PUT /api/v1/panels/{panel}", h.ShowPanel)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ApplyMiddleware wraps next with recovery and request logging.
func ApplyMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, next)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}
