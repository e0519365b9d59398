package service

import (
	"context"
	"time"
)

// RetryPolicy is applied uniformly to persistence operations: a bounded
// number of attempts with a fixed delay in between. Generation calls are
// never retried through this; a failed generation lands in error status
// and waits for a new explicit request.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy matches the store contract: up to 3 attempts with a
// fixed short delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: 250 * time.Millisecond}
}

// Do runs fn until it succeeds, attempts are exhausted, or ctx is done.
// The last error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return err
		}
	}
	return err
}
