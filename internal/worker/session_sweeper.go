package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpiredSessionPurger removes sessions that expired at now.
type ExpiredSessionPurger interface {
	PurgeExpired(now time.Time) int
}

// StartSessionSweeper purges expired sessions every interval until ctx is done.
// The returned channel is closed once the sweeper has stopped.
func StartSessionSweeper(ctx context.Context, purger ExpiredSessionPurger, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if purger == nil || interval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := purger.PurgeExpired(now); n > 0 {
					logger.Debug("purged expired sessions", zap.Int("count", n))
				}
			}
		}
	}()
	return done
}
