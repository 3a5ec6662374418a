// Package retry runs a call with a bounded number of attempts and
// exponential backoff between them.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrExhausted is matched by errors.Is when every attempt failed
var ErrExhausted = errors.New("retry attempts exhausted")

// ExhaustedError reports the attempt count and the last failure
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

// Is makes errors.Is(err, ErrExhausted) true
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// RejectedError records an attempt whose value was returned but not accepted
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "rejected: " + e.Reason
}

// Policy configures attempts and backoff. The first wait is Min, each
// following wait grows by Multiplier and is capped at Max.
type Policy struct {
	Attempts   int
	Multiplier float64
	Min        time.Duration
	Max        time.Duration

	// Notify is called before every wait; nil is fine
	Notify func(err error, wait time.Duration)
}

// DefaultPolicy returns 3 attempts with backoff of 2s, 4s, 8s capped at 10s
func DefaultPolicy() Policy {
	return Policy{
		Attempts:   3,
		Multiplier: 2,
		Min:        2 * time.Second,
		Max:        10 * time.Second,
	}
}

func (p Policy) newBackOff() *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.Min,
		RandomizationFactor: 0,
		Multiplier:          p.Multiplier,
		MaxInterval:         p.Max,
	}
	if b.InitialInterval <= 0 {
		b.InitialInterval = backoff.DefaultInitialInterval
	}
	if b.Multiplier <= 0 {
		b.Multiplier = 2
	}
	if b.MaxInterval < b.InitialInterval {
		b.MaxInterval = b.InitialInterval
	}
	b.Reset()
	return b
}

// Backoff returns the wait after the given 1-based failed attempt
func (p Policy) Backoff(attempt int) time.Duration {
	b := p.newBackOff()
	wait := b.NextBackOff()
	for i := 1; i < attempt; i++ {
		wait = b.NextBackOff()
	}
	return wait
}

func (p Policy) attempts() int {
	if p.Attempts <= 0 {
		return 1
	}
	return p.Attempts
}

// Do runs call until it returns a value accept approves, or the attempt budget
// is spent. accept returns an empty reason for an acceptable value. The number
// of attempts made is returned alongside the value.
func Do[T any](ctx context.Context, p Policy, call func(context.Context) (T, error), accept func(T) (bool, string)) (T, int, error) {
	var zero T
	attempts := 0

	v, err := backoff.Retry(ctx, func() (T, error) {
		attempts++
		v, err := call(ctx)
		if err != nil {
			return zero, err
		}
		if accept != nil {
			if ok, reason := accept(v); !ok {
				return zero, &RejectedError{Reason: reason}
			}
		}
		return v, nil
	},
		backoff.WithBackOff(p.newBackOff()),
		backoff.WithMaxTries(uint(p.attempts())),
		backoff.WithNotify(func(err error, wait time.Duration) {
			if p.Notify != nil {
				p.Notify(err, wait)
			}
		}),
	)
	if err == nil {
		return v, attempts, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil && attempts < p.attempts() {
		return zero, attempts, fmt.Errorf("retry interrupted after attempt %d: %w", attempts, ctxErr)
	}
	return zero, attempts, &ExhaustedError{Attempts: attempts, Last: err}
}
