package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig controls when the endpoint circuit opens
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failed calls that opens the circuit; 0 disables it
	MaxFailures uint32
	// Cooldown is how long the circuit stays open before a trial call
	Cooldown time.Duration
}

// DefaultBreakerConfig leaves the circuit disabled; setting MaxFailures
// enables it with a 15 second cooldown
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures: 0,
		Cooldown:    15 * time.Second,
	}
}

// BreakerCompleter holds calls back while the wrapped endpoint keeps failing.
// A held call waits for the circuit to let a trial call through; the wait is not
// a failed call.
type BreakerCompleter struct {
	next Completer
	cb   *gobreaker.CircuitBreaker
	poll time.Duration
}

// NewBreakerCompleter wraps next in a circuit breaker. With MaxFailures of 0
// next is returned unchanged.
func NewBreakerCompleter(next Completer, cfg BreakerConfig, onStateChange func(from, to string)) Completer {
	if cfg.MaxFailures == 0 {
		return next
	}

	settings := gobreaker.Settings{
		Name:        "completion-endpoint",
		MaxRequests: 1,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// The caller giving up is not an endpoint failure
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	if onStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			onStateChange(from.String(), to.String())
		}
	}

	return &BreakerCompleter{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
		poll: pollInterval(cfg.Cooldown),
	}
}

// Complete forwards to the wrapped completer, waiting while the circuit is
// open or a half-open trial call is already in flight
func (b *BreakerCompleter) Complete(ctx context.Context, prompt Prompt) (Completion, error) {
	for {
		out, err := b.cb.Execute(func() (interface{}, error) {
			return b.next.Complete(ctx, prompt)
		})
		if err == nil {
			return out.(Completion), nil
		}
		if !errors.Is(err, gobreaker.ErrOpenState) && !errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Completion{}, err
		}

		timer := time.NewTimer(b.poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Completion{}, fmt.Errorf("endpoint unavailable (%v): %w", err, ctx.Err())
		case <-timer.C:
		}
	}
}

// State returns the breaker state name
func (b *BreakerCompleter) State() string {
	return b.cb.State().String()
}

// pollInterval is how often a held call checks the circuit again
func pollInterval(cooldown time.Duration) time.Duration {
	poll := cooldown / 10
	if poll < time.Millisecond {
		poll = time.Millisecond
	}
	if poll > time.Second {
		poll = time.Second
	}
	return poll
}
