package retry

import (
	"context"
	"time"

	"doclens/internal/domain"
)

// Policy retries transient collaborator failures with exponential backoff.
// It is shared by the embedding and generation clients so the backoff shape
// lives in one place instead of being duplicated per component.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Default matches the bounded policy used for network collaborators:
// 3 attempts, 200ms base, capped at 5s.
func Default() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 200 * time.Millisecond, MaxDelay: 5 * time.Second}
}

// Do runs fn, retrying while the returned error is marked retryable and
// attempts remain. Fatal errors and context cancellation surface
// immediately.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(p.delay(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err = fn(); err == nil {
			return nil
		}
		if !domain.IsRetryable(err) {
			return err
		}
	}
	return err
}

// delay grows exponentially with the attempt number, capped at MaxDelay.
func (p Policy) delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = 200 * time.Millisecond
	}
	max := p.MaxDelay
	if max <= 0 {
		max = 5 * time.Second
	}
	d := base << attempt
	if d > max || d <= 0 {
		d = max
	}
	return d
}
