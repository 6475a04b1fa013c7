// Package retry implements a caller-configurable retry policy. The trading
// core submits exactly once per call; layering retries on top of it is a
// caller decision, made here, never inside the execution path.
package retry

import (
	"context"
	"time"

	"github.com/jpillora/backoff"

	"fxpilot/internal/logger"
)

// Policy controls retry behavior around a transient-failure-prone call.
// The zero value performs a single attempt with no retries.
type Policy struct {
	Enabled     bool
	MaxAttempts int
	MinBackoff  time.Duration
	MaxBackoff  time.Duration
}

// Do runs fn up to MaxAttempts times, backing off exponentially with
// jitter between attempts. retryable decides whether an error is worth
// another attempt; a nil retryable retries everything. The last error is
// returned when attempts are exhausted or the context is cancelled.
func (p Policy) Do(ctx context.Context, name string, fn func() error, retryable func(error) bool) error {
	attempts := p.MaxAttempts
	if !p.Enabled || attempts <= 0 {
		attempts = 1
	}
	b := &backoff.Backoff{
		Min:    p.MinBackoff,
		Max:    p.MaxBackoff,
		Jitter: true,
	}
	if b.Min <= 0 {
		b.Min = 500 * time.Millisecond
	}
	if b.Max <= 0 {
		b.Max = 10 * time.Second
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		wait := b.Duration()
		logger.Warnf("%s failed (attempt %d/%d), retrying in %s: %v", name, attempt, attempts, wait.Round(time.Millisecond), err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}
