// Package logsink provides diagnostic sinks that write capture records to slog
// and fan records out to several sinks.
package logsink

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ericfisherdev/formpanel/internal/domain/model"
	"github.com/ericfisherdev/formpanel/internal/domain/port/driven"
)

var (
	_ driven.DiagnosticSink = (*SlogSink)(nil)
	_ driven.DiagnosticSink = MultiSink(nil)
)

// SlogSink writes each record as one INFO entry whose message is the
// record's diagnostic line, e.g. "Sign Up: a@b.com x".
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a SlogSink writing to logger.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

// Emit implements driven.DiagnosticSink.
func (s *SlogSink) Emit(ctx context.Context, rec model.CaptureRecord) error {
	s.logger.InfoContext(ctx, rec.String(),
		"capture_id", rec.ID.String(),
		"form", string(rec.Form),
		"secret_redacted", rec.SecretRedacted,
	)
	return nil
}

// MultiSink emits every record to each sink in order. Every sink receives the
// record even if an earlier one fails; the errors are joined.
type MultiSink []driven.DiagnosticSink

// Emit implements driven.DiagnosticSink.
func (m MultiSink) Emit(ctx context.Context, rec model.CaptureRecord) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Emit(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
