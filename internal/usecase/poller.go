package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// errPollTimeout reports that the polling budget elapsed before the
// condition was met.
var errPollTimeout = errors.New("poll budget exhausted")

// pollUntil invokes check at a fixed interval until it reports done, returns
// an error, or budget elapses. The first check runs immediately. Returns
// errPollTimeout when the budget runs out and context.Canceled when the
// caller's context is cancelled; errors from check pass through unchanged.
func pollUntil(ctx context.Context, interval, budget time.Duration, check func(context.Context) (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	// Burst 1 makes the first Wait free and every later Wait block for one
	// full interval.
	lim := rate.NewLimiter(rate.Every(interval), 1)

	for {
		if err := lim.Wait(ctx); err != nil {
			// Wait fails either because the context ended or because the
			// next permit would land past the deadline.
			if errors.Is(ctx.Err(), context.Canceled) {
				return context.Canceled
			}
			return errPollTimeout
		}

		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
