package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lyricsmith/internal/logging"
)

// Recording selects when a check is written to the store.
type Recording int

const (
	// RecordOnAdmit records only requests that were admitted.
	RecordOnAdmit Recording = iota
	// RecordAlways records every check, including rejected ones.
	RecordAlways
)

func (r Recording) String() string {
	if r == RecordAlways {
		return "always"
	}
	return "on_admit"
}

// Policy is a named request budget over a window.
type Policy struct {
	Name      string
	Requests  int
	Window    time.Duration
	Recording Recording
}

// Validate reports whether the policy can be enforced.
func (p Policy) Validate() error {
	if p.Requests <= 0 {
		return fmt.Errorf("policy %q: requests must be positive", p.Name)
	}
	if p.Window <= 0 {
		return fmt.Errorf("policy %q: window must be positive", p.Name)
	}
	return nil
}

// Key identifies one sliding window.
type Key struct {
	Client   string
	Endpoint string
}

// Store persists request timestamps per key.
type Store interface {
	// Count returns the timestamps for key strictly newer than since.
	Count(ctx context.Context, key Key, since time.Time) (int, error)
	// Record appends a timestamp for key.
	Record(ctx context.Context, key Key, at time.Time) error
}

// Purger is implemented by stores that can drop old timestamps in bulk.
type Purger interface {
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// Decision is the outcome of a check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Count      int
	RetryAfter time.Duration
}

// Limiter applies policies against a Store.
type Limiter struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger used for record failures on rejected checks.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logging.NewComponentLogger(logger, "ratelimit")
		}
	}
}

// New constructs a Limiter over store.
func New(store Store, opts ...Option) *Limiter {
	l := &Limiter{store: store, now: time.Now, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Store returns the backing store.
func (l *Limiter) Store() Store { return l.store }

// Allow checks whether client may call endpoint under policy and records the
// request according to the policy's Recording mode. Store failures are
// returned to the caller, which decides whether to fail open. A rejection
// stands even when recording it fails; that failure is only logged.
func (l *Limiter) Allow(ctx context.Context, policy Policy, client, endpoint string) (Decision, error) {
	if l == nil || l.store == nil {
		return Decision{}, errors.New("rate limiter store unavailable")
	}
	if err := policy.Validate(); err != nil {
		return Decision{}, err
	}
	key := Key{Client: client, Endpoint: endpoint}
	now := l.now()

	count, err := l.store.Count(ctx, key, now.Add(-policy.Window))
	if err != nil {
		return Decision{}, fmt.Errorf("count %s/%s: %w", endpoint, client, err)
	}

	decision := Decision{
		Allowed: count < policy.Requests,
		Limit:   policy.Requests,
		Count:   count,
	}
	if decision.Allowed {
		decision.Remaining = max(0, policy.Requests-count-1)
	} else {
		decision.RetryAfter = policy.Window
	}

	if decision.Allowed || policy.Recording == RecordAlways {
		if err := l.store.Record(ctx, key, now); err != nil {
			if !decision.Allowed {
				logging.WarnWithContext(l.logger, "failed to record rejected request", "rate_limit_record_failed",
					logging.Endpoint(endpoint),
					logging.String("policy", policy.Name),
					logging.String(logging.FieldImpact, "rejection not counted toward the window"),
					logging.Error(err),
				)
				return decision, nil
			}
			return decision, fmt.Errorf("record %s/%s: %w", endpoint, client, err)
		}
	}
	return decision, nil
}
