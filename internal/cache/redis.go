// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"paceup/internal/observability"

	"github.com/redis/go-redis/v9"
)

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// InitRedis initializes a Redis client for the given address. The returned
// client is nil when Redis is unreachable; callers treat a nil client as
// "cache disabled" and fall through to the database.
func InitRedis(addr string) *redis.Client {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (continuing without cache)", addr, err)
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		return nil
	}
	log.Println("Redis connected successfully")
	return client
}

// Aside implements the cache-aside pattern: on hit, dest is populated from
// the cached JSON; on miss, fetch runs, the result is stored under key with
// the given TTL and copied into dest. Cache failures never fail the read.
func Aside[T any](ctx context.Context, rdb *redis.Client, key string, dest *T, ttl time.Duration, fetch func() (T, error)) error {
	if rdb != nil {
		if raw, err := rdb.Get(ctx, key).Result(); err == nil {
			if err := json.Unmarshal([]byte(raw), dest); err == nil {
				return nil
			}
			// Corrupt entry: drop it and fall through to the fetch.
			rdb.Del(ctx, key)
		}
	}

	v, err := fetch()
	if err != nil {
		return err
	}
	*dest = v

	if rdb != nil {
		if raw, err := json.Marshal(v); err == nil {
			rdb.Set(ctx, key, raw, ttl)
		}
	}
	return nil
}
