// Package ratelimit — счётчик с фиксированным окном в Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

func New(rdb *redis.Client, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: int64(limit), window: window, prefix: prefix}
}

// NewClient разбирает REDIS_URL и проверяет соединение.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ratelimit: ping redis: %w", err)
	}
	return rdb, nil
}

// Allow засчитывает попытку по ключу и говорит, укладывается ли она в лимит.
// Окно отсчитывается от первой попытки.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit: incr %s: %w", k, err)
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit: expire %s: %w", k, err)
		}
	}
	return n <= l.limit, nil
}

// Remaining — сколько попыток осталось в текущем окне.
func (l *Limiter) Remaining(ctx context.Context, key string) (int64, error) {
	n, err := l.rdb.Get(ctx, l.prefix+key).Int64()
	if err == redis.Nil {
		return l.limit, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ratelimit: get %s: %w", key, err)
	}
	if n >= l.limit {
		return 0, nil
	}
	return l.limit - n, nil
}
