package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Limiter enforces request rates through a Redis-backed limiter store shared
// across instances.
type Limiter struct {
	store limiter.Store
}

// NewLimiter builds a limiter persisting counters in Redis under the given
// key prefix.
func NewLimiter(client *redis.Client, prefix string) (*Limiter, error) {
	store, err := limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix})
	if err != nil {
		return nil, err
	}
	return &Limiter{store: store}, nil
}

// Allow registers a hit for the given key and reports whether it stays within
// max events per window.
func (l *Limiter) Allow(ctx context.Context, key string, window time.Duration, max int) (allowed bool, remaining int, reset time.Time, err error) {
	if l == nil || l.store == nil || max <= 0 || window <= 0 {
		return true, max, time.Now().Add(window), nil
	}

	instance := limiter.New(l.store, limiter.Rate{Period: window, Limit: int64(max)})
	res, err := instance.Get(ctx, key)
	if err != nil {
		return false, 0, time.Now().Add(window), err
	}
	return !res.Reached, int(res.Remaining), time.Unix(res.Reset, 0), nil
}
