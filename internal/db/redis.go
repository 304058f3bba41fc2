package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisOptions parses redisURL and tags connections with clientName so they
// show up in CLIENT LIST.
func RedisOptions(redisURL, clientName string) (*redis.Options, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}
	if clientName != "" {
		opts.ClientName = clientName
	}
	return opts, nil
}

// NewRedisClient connects and pings once. The client backs the company cache,
// the sign-up rate limiter and the email command channel.
func NewRedisClient(ctx context.Context, redisURL, clientName string) (*redis.Client, error) {
	opts, err := RedisOptions(redisURL, clientName)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
