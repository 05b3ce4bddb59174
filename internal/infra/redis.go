package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis opens the go-redis client that backs the listing cache, the
// branch-change bus, and the closing-report queue. Fails fast on an
// unreachable server rather than letting the first cache miss discover it.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
