// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ericfisherdev/formpanel/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/formpanel/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/formpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/formpanel/internal/application"
	"github.com/ericfisherdev/formpanel/internal/domain/model"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	captureSvc *application.CaptureService
	panelSvc   *application.PanelService
	visitors   *VisitorTokens
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	captureSvc *application.CaptureService,
	panelSvc *application.PanelService,
	visitors *VisitorTokens,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		captureSvc: captureSvc,
		panelSvc:   panelSvc,
		visitors:   visitors,
		logger:     logger,
	}
}

// Page renders the two-panel page for the current visitor.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	visitorID, ok := h.visitor(w, r)
	if !ok {
		return
	}

	page := toPageViewModel(h.panelSvc.Current(r.Context(), visitorID), csrfToken(w, r))
	h.render(w, r, http.StatusOK, page)
}

// Capture handles a submission of either form. The hidden "form" field selects
// which one; every other posted field is an element the capture may read.
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}

	visitorID, ok := h.visitor(w, r)
	if !ok {
		return
	}

	form, err := model.ParseForm(r.PostFormValue("form"))
	if err != nil {
		http.Error(w, "unknown form", http.StatusBadRequest)
		return
	}

	page := toPageViewModel(h.panelSvc.Current(r.Context(), visitorID), csrfToken(w, r))

	outcome, err := h.captureSvc.Capture(r.Context(), form, postedFields(r.PostForm))
	if err != nil {
		var missing *model.MissingElementError
		if errors.As(err, &missing) {
			page.Error = "Form element \"" + missing.ID + "\" is missing."
			h.render(w, r, http.StatusUnprocessableEntity, page)
			return
		}

		h.logger.Error("capture failed", "form", form, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	page.Ack = toAckViewModel(outcome.Ack)
	h.render(w, r, http.StatusOK, page)
}

// RateLimited renders the page with a throttling notice and status 429.
// It is meant as the rejection of a rate limiter wrapping Capture.
func (h *Handler) RateLimited(w http.ResponseWriter, r *http.Request) {
	visitorID, ok := h.visitor(w, r)
	if !ok {
		return
	}

	page := toPageViewModel(h.panelSvc.Current(r.Context(), visitorID), csrfToken(w, r))
	page.Error = "Too many submissions. Wait a moment and try again."
	h.render(w, r, http.StatusTooManyRequests, page)
}

// TogglePanel switches the visible panel and redirects back to the page.
func (h *Handler) TogglePanel(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}

	visitorID, ok := h.visitor(w, r)
	if !ok {
		return
	}

	panel, err := model.ParsePanel(r.PostFormValue("panel"))
	if err != nil {
		http.Error(w, "unknown panel", http.StatusBadRequest)
		return
	}

	h.panelSvc.Show(r.Context(), visitorID, panel)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page vm.PageViewModel) {
	layout := templates.Layout(page.Title, pages.Panels(page))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "error", err)
	}
}

func (h *Handler) visitor(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := h.visitors.visitorID(w, r)
	if err != nil {
		h.logger.Error("failed to issue visitor token", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return "", false
	}
	return id, true
}

func (h *Handler) checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return false
	}
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return false
	}
	return true
}

// postedFields exposes posted form values as a FieldSource. A field that was
// not posted at all is an absent element; an empty value is still present.
type postedFields url.Values

func (f postedFields) Lookup(id string) (string, bool) {
	vals, ok := f[id]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}
