package database

import (
	"context"
	"fmt"

	"ticketya/config"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects the client backing the confirmation stream. The
// stream consumer blocks server-side, so reads must not carry the default
// client timeout.
func InitRedis(ctx context.Context, config *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", config.Host, config.Port),
		Password:    config.Password,
		DB:          config.DB,
		ReadTimeout: -1,
	})

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}
