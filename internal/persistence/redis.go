package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"go.uber.org/zap"

	"github.com/spec-kit/authgate/internal/config"
)

// Redis backs the stored-session repository.
type Redis struct {
	Client *redis.Client
}

// NewRedis opens a client and waits for the server to answer a ping, retrying
// with backoff. The client is closed when the server never becomes reachable.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := pingWithRetry(ctx, ping, cfg.ConnectRetries, connectBackoff, logger.With(zap.String("dependency", "redis"))); err != nil {
		_ = client.Close()
		return nil, oops.In("persistence").With("addr", cfg.Addr).Wrap(err)
	}

	logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return &Redis{Client: client}, nil
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping reports whether the session store is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
