// Package clock provides an injectable delay strategy so the identity service's
// simulated network latency can be a real sleep in production and a no-op in tests.
package clock

import (
	"context"
	"time"
)

// Delayer suspends the calling operation for a duration.
type Delayer interface {
	Delay(ctx context.Context, d time.Duration) error
}

// Real sleeps for the full duration unless the context is cancelled first.
type Real struct{}

func (Real) Delay(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Noop returns immediately. Used in tests so they run synchronously without timing flakiness.
type Noop struct{}

func (Noop) Delay(context.Context, time.Duration) error { return nil }

var (
	_ Delayer = Real{}
	_ Delayer = Noop{}
)
