// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/formpanel/internal/domain/model"
	"github.com/ericfisherdev/formpanel/internal/domain/port/driven"
)

// CaptureService reads the current values of a form's fields, emits one
// diagnostic record, and returns the form's acknowledgment. Nothing is
// validated and no account is created.
type CaptureService struct {
	sink       driven.DiagnosticSink
	logSecrets bool
	logger     *slog.Logger
	now        func() time.Time
}

// NewCaptureService creates a CaptureService. When logSecrets is false the
// secret is replaced by model.RedactedSecret before it reaches the sink.
func NewCaptureService(sink driven.DiagnosticSink, logSecrets bool, logger *slog.Logger) *CaptureService {
	return &CaptureService{
		sink:       sink,
		logSecrets: logSecrets,
		logger:     logger,
		now:        time.Now,
	}
}

// CaptureSignUp captures the sign-up form.
func (s *CaptureService) CaptureSignUp(ctx context.Context, fields driven.FieldSource) (model.CaptureOutcome, error) {
	return s.Capture(ctx, model.FormSignUp, fields)
}

// CaptureLogIn captures the log-in form.
func (s *CaptureService) CaptureLogIn(ctx context.Context, fields driven.FieldSource) (model.CaptureOutcome, error) {
	return s.Capture(ctx, model.FormLogIn, fields)
}

// Capture reads the identifier and then the secret of form from fields.
// A missing field aborts with *model.MissingElementError before anything is
// emitted. A sink failure also aborts, so an acknowledgment is only returned
// once the record has been emitted.
func (s *CaptureService) Capture(ctx context.Context, form model.Form, fields driven.FieldSource) (model.CaptureOutcome, error) {
	if !form.Valid() {
		return model.CaptureOutcome{}, fmt.Errorf("capture: %w: %q", model.ErrUnknownForm, form)
	}

	pair, err := readPair(form, fields)
	if err != nil {
		s.logger.Debug("capture aborted", "form", form, "error", err)
		return model.CaptureOutcome{}, err
	}

	rec := model.CaptureRecord{
		ID:         uuid.New(),
		Form:       form,
		Identifier: pair.Identifier,
		Secret:     pair.Secret,
		CapturedAt: s.now().UTC(),
	}
	if !s.logSecrets {
		rec.Secret = model.RedactedSecret
		rec.SecretRedacted = true
	}

	if err := s.sink.Emit(ctx, rec); err != nil {
		return model.CaptureOutcome{}, fmt.Errorf("emit capture record %s: %w", rec.ID, err)
	}

	return model.CaptureOutcome{
		Record: rec,
		Ack:    model.Acknowledgment{Form: form, Message: form.AckMessage()},
	}, nil
}

func readPair(form model.Form, fields driven.FieldSource) (model.CredentialPair, error) {
	if fields == nil {
		return model.CredentialPair{}, &model.MissingElementError{ID: form.IdentifierField()}
	}

	identifier, ok := fields.Lookup(form.IdentifierField())
	if !ok {
		return model.CredentialPair{}, &model.MissingElementError{ID: form.IdentifierField()}
	}
	secret, ok := fields.Lookup(form.SecretField())
	if !ok {
		return model.CredentialPair{}, &model.MissingElementError{ID: form.SecretField()}
	}

	return model.CredentialPair{Identifier: identifier, Secret: secret}, nil
}
