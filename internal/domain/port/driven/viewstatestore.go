package driven

import (
	"context"

	"github.com/ericfisherdev/formpanel/internal/domain/model"
)

// ViewStateStore holds the panel view state of each visitor for the lifetime
// of the process. It is not persisted.
type ViewStateStore interface {
	// Load returns the stored state, or ok=false if the visitor is unknown.
	Load(ctx context.Context, visitorID string) (state model.ViewState, ok bool)

	// Save replaces the visitor's state.
	Save(ctx context.Context, visitorID string, state model.ViewState)
}
