package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Web routes serve HTML at / and /app/* paths.
// Static assets are served from the embedded filesystem at /static/*.
// limitCapture, when non-nil, wraps the capture route (rate limiting).
func RegisterRoutes(mux *http.ServeMux, h *Handler, limitCapture func(http.HandlerFunc) http.HandlerFunc) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Page)

	// Form posts.
	capture := http.HandlerFunc(h.Capture)
	if limitCapture != nil {
		capture = limitCapture(capture)
	}
	mux.Handle("POST /app/capture", capture)
	mux.HandleFunc("POST /app/panels", h.TogglePanel)
}
