package driven

import (
	"context"

	"github.com/ericfisherdev/formpanel/internal/domain/model"
)

// DiagnosticSink receives one record per successful capture.
type DiagnosticSink interface {
	Emit(ctx context.Context, rec model.CaptureRecord) error
}
