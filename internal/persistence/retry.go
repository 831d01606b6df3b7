package persistence

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const connectBackoff = 200 * time.Millisecond

// pingWithRetry calls ping until it succeeds, retrying up to retries times with
// exponential backoff starting at base.
func pingWithRetry(ctx context.Context, ping func(context.Context) error, retries uint64, base time.Duration, logger *zap.Logger) error {
	backoff := retry.WithMaxRetries(retries, retry.NewExponential(base))
	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := ping(ctx); err != nil {
			logger.Warn("dependency not reachable", zap.Int("attempt", attempt), zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
}
