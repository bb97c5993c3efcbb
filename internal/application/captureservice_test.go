package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/formpanel/internal/application"
	"github.com/ericfisherdev/formpanel/internal/domain/model"
	"github.com/ericfisherdev/formpanel/internal/domain/port/driven"
)

// --- Mock implementations ---

type recordingSink struct {
	records []model.CaptureRecord
	err     error
}

func (s *recordingSink) Emit(_ context.Context, rec model.CaptureRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCaptureService(sink driven.DiagnosticSink, logSecrets bool) *application.CaptureService {
	return application.NewCaptureService(sink, logSecrets, discardLogger())
}

func TestCaptureSignUp_ScenarioA(t *testing.T) {
	sink := &recordingSink{}
	svc := newCaptureService(sink, true)

	out, err := svc.CaptureSignUp(context.Background(), driven.MapFieldSource{
		"email":    "a@b.com",
		"password": "x",
	})

	require.NoError(t, err)
	require.Len(t, sink.records, 1)
	assert.Equal(t, "Sign Up: a@b.com x", sink.records[0].String())
	assert.Equal(t, "Account created successfully!", out.Ack.Message)
	assert.Equal(t, model.FormSignUp, out.Ack.Form)
	assert.Equal(t, sink.records[0], out.Record)
	assert.NotEqual(t, uuid.Nil, out.Record.ID)
	assert.False(t, out.Record.CapturedAt.IsZero())
}

func TestCaptureLogIn_ScenarioB(t *testing.T) {
	sink := &recordingSink{}
	svc := newCaptureService(sink, true)

	out, err := svc.CaptureLogIn(context.Background(), driven.MapFieldSource{
		"login-email":    "c@d.com",
		"login-password": "y",
	})

	require.NoError(t, err)
	require.Len(t, sink.records, 1)
	assert.Equal(t, "Log In: c@d.com y", sink.records[0].String())
	assert.Equal(t, "Logged in successfully!", out.Ack.Message)
}

func TestCapture_AnyStringsIncludingEmpty(t *testing.T) {
	inputs := []model.CredentialPair{
		{Identifier: "", Secret: ""},
		{Identifier: "not an email", Secret: " "},
		{Identifier: "ü@例え.jp", Secret: "p@ss word\n"},
	}

	for _, form := range model.Forms() {
		for _, in := range inputs {
			sink := &recordingSink{}
			svc := newCaptureService(sink, true)

			out, err := svc.Capture(context.Background(), form, driven.MapFieldSource{
				form.IdentifierField(): in.Identifier,
				form.SecretField():     in.Secret,
			})

			require.NoError(t, err)
			require.Len(t, sink.records, 1, "exactly one record per capture")
			assert.Equal(t, in.Identifier, sink.records[0].Identifier)
			assert.Equal(t, in.Secret, sink.records[0].Secret)
			assert.Equal(t, form.AckMessage(), out.Ack.Message)
		}
	}
}

func TestCapture_RedactsSecretByDefault(t *testing.T) {
	sink := &recordingSink{}
	svc := newCaptureService(sink, false)

	out, err := svc.CaptureSignUp(context.Background(), driven.MapFieldSource{
		"email":    "a@b.com",
		"password": "hunter2",
	})

	require.NoError(t, err)
	require.Len(t, sink.records, 1)
	assert.Equal(t, model.RedactedSecret, sink.records[0].Secret)
	assert.True(t, sink.records[0].SecretRedacted)
	assert.Equal(t, "Sign Up: a@b.com [redacted]", out.Record.String())
}

func TestCapture_MissingIdentifierField(t *testing.T) {
	sink := &recordingSink{}
	svc := newCaptureService(sink, true)

	out, err := svc.CaptureSignUp(context.Background(), driven.MapFieldSource{"password": "x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingElement)
	var missing *model.MissingElementError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "email", missing.ID)
	assert.Empty(t, sink.records, "no record on missing element")
	assert.Empty(t, out.Ack.Message, "no acknowledgment on missing element")
}

func TestCapture_MissingSecretField(t *testing.T) {
	sink := &recordingSink{}
	svc := newCaptureService(sink, true)

	_, err := svc.CaptureLogIn(context.Background(), driven.MapFieldSource{"login-email": "c@d.com"})

	var missing *model.MissingElementError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "login-password", missing.ID)
	assert.Empty(t, sink.records)
}

func TestCapture_NilFieldSource(t *testing.T) {
	sink := &recordingSink{}
	svc := newCaptureService(sink, true)

	_, err := svc.CaptureLogIn(context.Background(), nil)

	assert.ErrorIs(t, err, model.ErrMissingElement)
	assert.Empty(t, sink.records)
}

func TestCapture_SinkFailureSuppressesAck(t *testing.T) {
	sinkErr := errors.New("disk full")
	svc := newCaptureService(&recordingSink{err: sinkErr}, true)

	out, err := svc.CaptureSignUp(context.Background(), driven.MapFieldSource{
		"email":    "a@b.com",
		"password": "x",
	})

	assert.ErrorIs(t, err, sinkErr)
	assert.Empty(t, out.Ack.Message)
}

func TestCapture_UnknownForm(t *testing.T) {
	sink := &recordingSink{}
	svc := newCaptureService(sink, true)

	_, err := svc.Capture(context.Background(), model.Form("reset"), driven.MapFieldSource{})

	assert.ErrorIs(t, err, model.ErrUnknownForm)
	assert.Empty(t, sink.records)
}

func TestCapture_FreshRecordPerCall(t *testing.T) {
	sink := &recordingSink{}
	svc := newCaptureService(sink, true)
	fields := driven.MapFieldSource{"email": "a@b.com", "password": "x"}

	_, err := svc.CaptureSignUp(context.Background(), fields)
	require.NoError(t, err)
	_, err = svc.CaptureSignUp(context.Background(), fields)
	require.NoError(t, err)

	require.Len(t, sink.records, 2)
	assert.NotEqual(t, sink.records[0].ID, sink.records[1].ID)
}
