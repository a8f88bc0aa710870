package httpx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisLimiter is a fixed window counter shared by every API replica.
type redisLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewRedisLimiter counts events per key in Redis. Keys are prefix:key:window.
func NewRedisLimiter(client *redis.Client, config RateLimitConfig, prefix string) Limiter {
	return &redisLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(config.RequestsPerWindow),
		window: config.Window,
	}
}

func (rl *redisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := time.Now()
	slot := now.UnixMilli() / rl.window.Milliseconds()
	k := fmt.Sprintf("%s:%s:%d", rl.prefix, key, slot)

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.PExpire(ctx, k, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("redis limiter: %w", err)
	}

	if incr.Val() <= rl.limit {
		return true, 0, nil
	}

	end := time.UnixMilli((slot + 1) * rl.window.Milliseconds())
	return false, end.Sub(now), nil
}
