// ABOUTME: Bounded retry with exponential waits between attempts.
// ABOUTME: Wraps cenkalti/backoff with attempt counting and a permanent-error hook.

package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy controls how Do retries. With the defaults, three attempts are made
// and the waits before attempts two and three are 1s and 2s.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	Multiplier      float64

	// Retryable decides whether a failure is worth another attempt.
	// Nil retries everything.
	Retryable func(error) bool

	// Timer replaces the real timer, mainly in tests.
	Timer backoff.Timer

	// Notify is called after a failed attempt, before waiting.
	Notify func(attempt int, err error, wait time.Duration)
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: time.Second,
		Multiplier:      2,
	}
}

// ExhaustedError is returned when every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Do runs op until it succeeds, returns a non-retryable error, the attempts run
// out, or ctx is done. attempt starts at 1. A non-retryable error is returned
// as is; running out of attempts returns *ExhaustedError.
func Do(ctx context.Context, p Policy, op func(ctx context.Context, attempt int) error) error {
	p = p.withDefaults()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.Multiplier = p.Multiplier
	exp.RandomizationFactor = 0
	exp.MaxInterval = 24 * time.Hour
	exp.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.MaxAttempts-1)), ctx)

	attempt := 0
	var last error
	permanent := false
	operation := func() error {
		attempt++
		err := op(ctx, attempt)
		if err == nil {
			return nil
		}
		last = err
		if p.Retryable != nil && !p.Retryable(err) {
			permanent = true
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		if p.Notify != nil {
			p.Notify(attempt, err, wait)
		}
	}

	err := backoff.RetryNotifyWithTimer(operation, b, notify, p.Timer)
	switch {
	case err == nil:
		return nil
	case permanent:
		return last
	case ctx.Err() != nil:
		if last != nil {
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), last)
		}
		return ctx.Err()
	default:
		return &ExhaustedError{Attempts: attempt, Err: last}
	}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.MaxAttempts < 1 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = d.InitialInterval
	}
	if p.Multiplier < 1 {
		p.Multiplier = d.Multiplier
	}
	return p
}
