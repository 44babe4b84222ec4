//go:build integration

package redisad_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	redisad "github.com/Lafiorentina/siteweb/internal/adapters/redis"
)

func TestLimiter_RealRedis(t *testing.T) {
	// Start isolated Redis; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{Repository: "redis", Tag: "7.2-alpine"}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run redis: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	addr := fmt.Sprintf("127.0.0.1:%s", resource.GetPort("6379/tcp"))
	var c *redis.Client
	if err := pool.Retry(func() error {
		c = redis.NewClient(&redis.Options{Addr: addr})
		return c.Ping(context.Background()).Err()
	}); err != nil {
		t.Fatalf("connect redis: %v", err)
	}

	lim := redisad.NewFromClient(c, 2, time.Second)
	t.Cleanup(func() { _ = lim.Close() })
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := lim.Allow(ctx, "203.0.113.9")
		if err != nil {
			t.Fatalf("allow #%d: %v", i, err)
		}
		if ok != want {
			t.Fatalf("allow #%d = %v, want %v", i, ok, want)
		}
	}

	// the window is a real key expiry here
	time.Sleep(1200 * time.Millisecond)
	ok, err := lim.Allow(ctx, "203.0.113.9")
	if err != nil || !ok {
		t.Fatalf("after window: ok=%v err=%v", ok, err)
	}
}
