package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/react-agent/domain/cache"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c, err := NewCache(context.Background(), DefaultConfig(), WithAddress(mr.Addr()), WithKeyPrefix("test:"))
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGet(t *testing.T) {
	t.Parallel()

	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "search:static:paris", []byte(`[]`), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !mr.Exists("test:search:static:paris") {
		t.Error("key not stored under prefix")
	}
	if ttl := mr.TTL("test:search:static:paris"); ttl != time.Minute {
		t.Errorf("TTL = %v, want %v", ttl, time.Minute)
	}

	got, ok, err := c.Get(ctx, "search:static:paris")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, want hit", ok, err)
	}
	if string(got) != "[]" {
		t.Errorf("Get() = %q, want %q", got, "[]")
	}

	if _, ok, err := c.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v, want miss", ok, err)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, size 1", stats)
	}
}

func TestCache_Expiry(t *testing.T) {
	t.Parallel()

	c, mr := newTestCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), time.Second)
	mr.FastForward(2 * time.Second)

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() after expiry = hit, want miss")
	}
}

func TestCache_DeleteClear(t *testing.T) {
	t.Parallel()

	c, mr := newTestCache(t)
	ctx := context.Background()

	_ = mr.Set("other:key", "keep")
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if mr.Exists("test:a") {
		t.Error("test:a should be deleted")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if mr.Exists("test:b") {
		t.Error("test:b should be cleared")
	}
	if !mr.Exists("other:key") {
		t.Error("Clear() removed a key outside the prefix")
	}
}

func TestCache_InvalidKey(t *testing.T) {
	t.Parallel()

	c := NewCacheFromClient(nil, "test:")
	if err := c.Set(context.Background(), "", []byte("v"), 0); !errors.Is(err, cache.ErrInvalidKey) {
		t.Errorf("Set() error = %v, want %v", err, cache.ErrInvalidKey)
	}
}

func TestCache_ServerDown(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	c := NewCacheFromClient(client, "test:")
	t.Cleanup(func() { _ = c.Close() })
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	if !errors.Is(err, cache.ErrConnectionFailed) {
		t.Errorf("Get() error = %v, want %v", err, cache.ErrConnectionFailed)
	}
}

func TestNewCache_Unreachable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewCache(context.Background(), DefaultConfig(), WithAddress(addr), WithTimeouts(200*time.Millisecond, 200*time.Millisecond, 200*time.Millisecond))
	if !errors.Is(err, cache.ErrConnectionFailed) {
		t.Errorf("NewCache() error = %v, want %v", err, cache.ErrConnectionFailed)
	}
}
