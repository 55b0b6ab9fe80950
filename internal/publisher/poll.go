package publisher

import (
	"context"
	"time"
)

// pollUntil runs check up to attempts times, sleeping interval between
// tries, and reports whether any check succeeded. It returns early when
// the context is cancelled. The deployment platform is eventually
// consistent, so a false result is a degraded state, not a failure.
func pollUntil(ctx context.Context, interval time.Duration, attempts int, check func(context.Context) bool) bool {
	if attempts <= 0 {
		return false
	}
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return false
		}
		if check(ctx) {
			return true
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(interval):
		}
	}
	return false
}
