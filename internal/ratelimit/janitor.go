package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"lyricsmith/internal/logging"
)

// Janitor periodically drops timestamps older than the retention horizon.
type Janitor struct {
	purger    Purger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewJanitor returns a janitor for store, or nil when store cannot purge.
func NewJanitor(store Store, interval, retention time.Duration, logger *slog.Logger) *Janitor {
	purger, ok := store.(Purger)
	if !ok {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Janitor{
		purger:    purger,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		logger:    logging.NewComponentLogger(logger, "ratelimit-janitor"),
	}
}

// Sweep runs one purge pass.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	removed, err := j.purger.Purge(ctx, j.now().Add(-j.retention))
	if err != nil {
		logging.WarnWithContext(j.logger, "usage purge failed", "usage_purge_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the rate limit store"),
		)
		return 0, err
	}
	if removed > 0 {
		j.logger.Debug("usage records purged", logging.Int64("removed", removed))
	}
	return removed, nil
}

// Run sweeps every interval until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) error {
	if j == nil || j.interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = j.Sweep(ctx)
		}
	}
}
