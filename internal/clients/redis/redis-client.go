package redis_client

import (
	"context"
	"log/slog"

	"github.com/init-pkg/meal-routes/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// New returns nil when REDIS_ADDR is not set; callers fall back to memory.
func New(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) *redis.Client {
	rc := cfg.Infrastructure.Redis
	if rc.Addr == "" {
		log.Info("Redis not configured, geocode cache kept in memory")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.Db,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("Redis ping failed", "addr", rc.Addr, "error", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}
