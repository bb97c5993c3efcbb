package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/formpanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// missingElementResponse is returned with 422 when a capture's field is absent.
type missingElementResponse struct {
	Error   string `json:"error"`
	Element string `json:"element"`
}

// CaptureRequest is the JSON body for the capture endpoint. Field keys are the
// element ids of the form, e.g. "email" and "password" for sign-up.
type CaptureRequest struct {
	Fields map[string]string `json:"fields"`
}

// CaptureResponse is returned after a successful capture.
type CaptureResponse struct {
	CaptureID  string `json:"capture_id"`
	Form       string `json:"form"`
	Message    string `json:"message"`
	Diagnostic string `json:"diagnostic"`
}

// CaptureRecordResponse is the JSON representation of a stored capture record.
type CaptureRecordResponse struct {
	ID               string `json:"id"`
	Form             string `json:"form"`
	Identifier       string `json:"identifier"`
	Secret           string `json:"secret"`
	SecretRedacted   bool   `json:"secret_redacted"`
	SecretUnreadable bool   `json:"secret_unreadable,omitempty"`
	CapturedAt       string `json:"captured_at"`
	Diagnostic       string `json:"diagnostic"`
}

// CaptureStatsResponse counts stored captures per form.
type CaptureStatsResponse struct {
	SignUp int64 `json:"signup"`
	LogIn  int64 `json:"login"`
}

// PanelResponse is the rendered view state of a visitor.
type PanelResponse struct {
	Active        string `json:"active"`
	SignUpDisplay string `json:"sign_up_display"`
	LoginDisplay  string `json:"login_display"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toCaptureResponse converts a capture outcome to its JSON representation.
func toCaptureResponse(out model.CaptureOutcome) CaptureResponse {
	return CaptureResponse{
		CaptureID:  out.Record.ID.String(),
		Form:       string(out.Record.Form),
		Message:    out.Ack.Message,
		Diagnostic: out.Record.String(),
	}
}

// toCaptureRecordResponse converts a stored record to its JSON representation.
func toCaptureRecordResponse(rec model.CaptureRecord) CaptureRecordResponse {
	return CaptureRecordResponse{
		ID:               rec.ID.String(),
		Form:             string(rec.Form),
		Identifier:       rec.Identifier,
		Secret:           rec.Secret,
		SecretRedacted:   rec.SecretRedacted,
		SecretUnreadable: rec.SecretUnreadable,
		CapturedAt:       rec.CapturedAt.UTC().Format(time.RFC3339Nano),
		Diagnostic:       rec.String(),
	}
}

// toPanelResponse converts a rendered display to its JSON representation.
func toPanelResponse(d model.PanelDisplay) PanelResponse {
	return PanelResponse{
		Active:        string(d.Active()),
		SignUpDisplay: string(d.SignUp),
		LoginDisplay:  string(d.Login),
	}
}
