package inventory

import (
	"context"
	"time"
)

// waitFunc pauses between attempts. It returns early with ctx.Err() on cancellation.
type waitFunc func(ctx context.Context, d time.Duration) error

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
