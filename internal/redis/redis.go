package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Init opens the redis client used for the report stats cache. Redis
// is optional: with no address configured the service runs uncached.
func Init(addr, password string, log *zap.Logger) *redis.Client {
	if addr == "" {
		log.Info("REDIS_ADDR not set, report stats cache disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis ping failed", zap.Error(err))
	}
	return rdb
}
