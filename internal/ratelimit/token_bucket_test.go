package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestTokenBucketCapacity(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bucket := NewTokenBucket(client, 2, 1, time.Minute)

	for i := 0; i < 2; i++ {
		allowed, err := bucket.Allow(ctx, "203.0.113.7")
		if err != nil || !allowed {
			t.Fatalf("request %d: allowed=%v err=%v", i, allowed, err)
		}
	}
	if allowed, _ := bucket.Allow(ctx, "203.0.113.7"); allowed {
		t.Fatalf("expected third request to be rejected")
	}
	if allowed, _ := bucket.Allow(ctx, "198.51.100.1"); !allowed {
		t.Fatalf("expected other client to have its own bucket")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bucket := PerMinute(client, 1)
	clock := time.Unix(1_700_000_000, 0)
	bucket.now = func() time.Time { return clock }

	if allowed, _ := bucket.Allow(ctx, "k"); !allowed {
		t.Fatalf("expected first request allowed")
	}
	if allowed, _ := bucket.Allow(ctx, "k"); allowed {
		t.Fatalf("expected second request rejected")
	}
	clock = clock.Add(61 * time.Second)
	if allowed, err := bucket.Allow(ctx, "k"); !allowed {
		t.Fatalf("expected refill after a minute, err=%v", err)
	}
}
