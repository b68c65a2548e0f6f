package ratelimit

import (
	"github.com/alpenstay/alpenstay/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var Module = fx.Module("ratelimit",
	fx.Provide(
		newRedisClient,
		NewReservationLimiter,
	),
)

// newRedisClient returns nil when no address is configured; consumers
// must tolerate the nil client.
func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}
