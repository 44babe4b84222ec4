package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemory_BurstThenRefill(t *testing.T) {
	m := NewMemory(2, time.Minute)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if ok, _ := m.Allow(ctx, "a"); !ok {
			t.Fatalf("attempt %d denied", i)
		}
	}
	if ok, _ := m.Allow(ctx, "a"); ok {
		t.Fatalf("third attempt should be denied")
	}
	if ok, _ := m.Allow(ctx, "b"); !ok {
		t.Fatalf("independent key denied")
	}

	clock = clock.Add(31 * time.Second)
	if ok, _ := m.Allow(ctx, "a"); !ok {
		t.Fatalf("one token should have been regained")
	}
}

func TestMemory_SweepsIdleBuckets(t *testing.T) {
	m := NewMemory(1, time.Minute)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	ctx := context.Background()

	_, _ = m.Allow(ctx, "a")
	clock = clock.Add(2 * time.Minute)
	_, _ = m.Allow(ctx, "b")

	if _, ok := m.buckets["a"]; ok {
		t.Fatalf("idle bucket not swept")
	}
}
