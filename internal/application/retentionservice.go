package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/formpanel/internal/domain/port/driven"
)

// RetentionService periodically purges capture records older than the
// configured retention window.
type RetentionService struct {
	store     driven.CaptureStore
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewRetentionService creates a RetentionService. A zero retention disables purging.
func NewRetentionService(store driven.CaptureStore, retention, interval time.Duration, logger *slog.Logger) *RetentionService {
	return &RetentionService{
		store:     store,
		retention: retention,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

// Start purges once, then on every interval, until ctx is canceled.
func (s *RetentionService) Start(ctx context.Context) {
	if s.retention <= 0 {
		s.logger.Info("capture retention disabled")
		return
	}

	if _, err := s.PurgeOnce(ctx); err != nil {
		s.logger.Error("initial capture purge failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("retention service stopped")
			return
		case <-ticker.C:
			if _, err := s.PurgeOnce(ctx); err != nil {
				s.logger.Error("capture purge failed", "error", err)
			}
		}
	}
}

// PurgeOnce deletes records older than the retention window.
func (s *RetentionService) PurgeOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention).UTC()
	n, err := s.store.Purge(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge captures before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if n > 0 {
		s.logger.Info("purged capture records", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
