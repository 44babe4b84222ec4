package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Lafiorentina/siteweb/internal/adapters/observability"
)

// Memory is a per-key token bucket limiter local to one process.
// A key may spend `limit` submissions at once and regains one every window/limit.
type Memory struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	buckets map[string]*bucket
	ttl     time.Duration
	now     func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &Memory{
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		buckets: map[string]*bucket{},
		ttl:     window,
		now:     time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(m.every, m.burst)}
		m.buckets[key] = b
	}
	b.seen = now
	m.sweep(now)

	if !b.lim.AllowN(now, 1) {
		observability.ObserveLimiter("memory", "deny")
		return false, nil
	}
	observability.ObserveLimiter("memory", "allow")
	return true, nil
}

// sweep drops buckets idle for longer than a window; they would be full again anyway.
func (m *Memory) sweep(now time.Time) {
	for k, b := range m.buckets {
		if now.Sub(b.seen) > m.ttl {
			delete(m.buckets, k)
		}
	}
}
