package redisad

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Lafiorentina/siteweb/internal/adapters/observability"
)

// Limiter is a fixed-window submission counter shared by every site instance.
type Limiter struct {
	c      *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

func New(addr, pass string, db int, limit int, window time.Duration) *Limiter {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), limit, window)
}

func NewFromClient(c *redis.Client, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &Limiter{c: c, limit: int64(limit), window: window, prefix: "submit:"}
}

// Allow counts one submission for key and reports whether it fits in the current window.
// The window TTL is (re)applied with NX on every hit, so a key can never outlive it.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	var incr *redis.IntCmd
	_, err := l.c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		observability.ObserveLimiter("redis", "error")
		return false, err
	}
	if incr.Val() > l.limit {
		observability.ObserveLimiter("redis", "deny")
		return false, nil
	}
	observability.ObserveLimiter("redis", "allow")
	return true, nil
}

func (l *Limiter) Ping(ctx context.Context) error { return l.c.Ping(ctx).Err() }

func (l *Limiter) Close() error { return l.c.Close() }
