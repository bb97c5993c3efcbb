package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/formpanel/internal/application"
	"github.com/ericfisherdev/formpanel/internal/domain/model"
	"github.com/ericfisherdev/formpanel/internal/domain/port/driven"
)

const (
	defaultCaptureLimit = 50
	maxCaptureLimit     = 500

	visitorHeader = "X-Visitor-ID"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	captureSvc   *application.CaptureService
	panelSvc     *application.PanelService
	captureStore driven.CaptureStore
	logger       *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
// captureStore may be nil, in which case the capture log endpoints return 503.
func NewHandler(
	captureSvc *application.CaptureService,
	panelSvc *application.PanelService,
	captureStore driven.CaptureStore,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		captureSvc:   captureSvc,
		panelSvc:     panelSvc,
		captureStore: captureStore,
		logger:       logger,
	}
}

// Capture reads the posted fields of the form named in the path, emits a
// diagnostic record and returns the acknowledgment.
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	form, err := model.ParseForm(r.PathValue("form"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown form")
		return
	}

	var req CaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.captureSvc.Capture(r.Context(), form, driven.MapFieldSource(req.Fields))
	if err != nil {
		var missing *model.MissingElementError
		if errors.As(err, &missing) {
			writeJSON(w, http.StatusUnprocessableEntity, missingElementResponse{
				Error:   model.ErrMissingElement.Error(),
				Element: missing.ID,
			})
			return
		}
		h.logger.Error("failed to capture form", "form", form, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toCaptureResponse(out))
}

// ListCaptures returns the most recent capture records, newest first.
func (h *Handler) ListCaptures(w http.ResponseWriter, r *http.Request) {
	if h.captureStore == nil {
		writeError(w, http.StatusServiceUnavailable, "capture log not configured")
		return
	}

	limit := defaultCaptureLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxCaptureLimit)
	}

	recs, err := h.captureStore.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list captures", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]CaptureRecordResponse, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, toCaptureRecordResponse(rec))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CaptureStats returns the number of stored captures per form.
func (h *Handler) CaptureStats(w http.ResponseWriter, r *http.Request) {
	if h.captureStore == nil {
		writeError(w, http.StatusServiceUnavailable, "capture log not configured")
		return
	}

	stats, err := h.captureStore.CountByForm(r.Context())
	if err != nil {
		h.logger.Error("failed to count captures", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, CaptureStatsResponse{SignUp: stats.SignUp, LogIn: stats.LogIn})
}

// GetPanels returns the visitor's current view state.
func (h *Handler) GetPanels(w http.ResponseWriter, r *http.Request) {
	visitorID := r.Header.Get(visitorHeader)
	if visitorID == "" {
		writeError(w, http.StatusBadRequest, "missing "+visitorHeader+" header")
		return
	}

	writeJSON(w, http.StatusOK, toPanelResponse(h.panelSvc.Current(r.Context(), visitorID)))
}

// ShowPanel makes the panel named in the path the visitor's active panel.
func (h *Handler) ShowPanel(w http.ResponseWriter, r *http.Request) {
	visitorID := r.Header.Get(visitorHeader)
	if visitorID == "" {
		writeError(w, http.StatusBadRequest, "missing "+visitorHeader+" header")
		return
	}

	panel, err := model.ParsePanel(r.PathValue("panel"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown panel")
		return
	}

	writeJSON(w, http.StatusOK, toPanelResponse(h.panelSvc.Show(r.Context(), visitorID, panel)))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
