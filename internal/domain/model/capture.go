package model

import (
	"time"

	"github.com/google/uuid"
)

// RedactedSecret replaces the secret in diagnostic records when cleartext
// secret logging is disabled.
const RedactedSecret = "[redacted]"

// CaptureRecord is the diagnostic record emitted once per successful capture.
// SecretUnreadable is only set on records read back from the capture log whose
// stored secret could not be decrypted; Secret then holds RedactedSecret.
type CaptureRecord struct {
	ID               uuid.UUID
	Form             Form
	Identifier       string
	Secret           string
	SecretRedacted   bool
	SecretUnreadable bool
	CapturedAt       time.Time
}

// String renders the diagnostic line, e.g. "Sign Up: a@b.com x".
func (r CaptureRecord) String() string {
	return r.Form.Label() + ": " + r.Identifier + " " + r.Secret
}

// Acknowledgment is the user-facing success notice for a capture.
type Acknowledgment struct {
	Form    Form
	Message string
}

// CaptureOutcome is the result of a successful capture.
type CaptureOutcome struct {
	Record CaptureRecord
	Ack    Acknowledgment
}

// CaptureStats counts recorded captures per form.
type CaptureStats struct {
	SignUp int64
	LogIn  int64
}
