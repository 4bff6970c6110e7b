package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns nil when no address is configured.
func ConnectRedis(ctx context.Context, s *Settings) (*redis.Client, error) {
	if s.RedisAddr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     s.RedisAddr,
		Password: s.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
