package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/formpanel/internal/domain/model"
)

// CaptureStore defines the driven port for the persisted capture log.
// Records are diagnostic entries only; no account state is derived from them.
type CaptureStore interface {
	// Append stores a capture record. Cleartext secrets are encrypted by the
	// adapter, or stored as the redaction marker when it has no key.
	Append(ctx context.Context, rec model.CaptureRecord) error

	// ListRecent returns up to limit records, newest first. A record whose
	// secret cannot be decrypted is still returned, with SecretUnreadable set.
	ListRecent(ctx context.Context, limit int) ([]model.CaptureRecord, error)

	// CountByForm returns the number of stored records per form.
	CountByForm(ctx context.Context) (model.CaptureStats, error)

	// Purge deletes records captured before olderThan and returns how many
	// were removed.
	Purge(ctx context.Context, olderThan time.Time) (int64, error)
}
