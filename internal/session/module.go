package session

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bookmark-site/bookmark-site/internal/config"
)

var (
	Module = fx.Provide(
		NewStore,
	)
)

// NewStore picks the session backend from config. The redis client is
// closed through the fx lifecycle.
func NewStore(lc fx.Lifecycle, cfg *config.Config, logger *zap.SugaredLogger) (Store, error) {
	if cfg.SessionBackend == config.SessionBackendMemory {
		return NewMemoryStore(cfg.SessionTTL), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing redis client.")
			return client.Close()
		},
	})

	return NewRedisStore(client, cfg.SessionTTL), nil
}
