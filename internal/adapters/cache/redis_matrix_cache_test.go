package cache

import (
	"context"
	"delivery-tour-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisMatrixCacheRoundTrip(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisMatrixCache(client, "tours:", time.Hour)
	ctx := context.Background()

	if _, ok, err := c.GetMatrix(ctx, "k"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	want := domain.DurationMatrix{{0, 7}, {9, 0}}
	if err := c.PutMatrix(ctx, "k", want); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !mr.Exists("tours:k") {
		t.Fatalf("expected prefixed key in redis")
	}
	if ttl := mr.TTL("tours:k"); ttl != time.Hour {
		t.Fatalf("ttl = %s, want 1h", ttl)
	}

	got, ok, err := c.GetMatrix(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got[0][1] != 7 || got[1][0] != 9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRedisMatrixCacheExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisMatrixCache(client, "", time.Minute)
	ctx := context.Background()

	if err := c.PutMatrix(ctx, "k", domain.DurationMatrix{{0}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, ok, err := c.GetMatrix(ctx, "k"); err != nil || ok {
		t.Fatalf("expected expired miss, got ok=%v err=%v", ok, err)
	}
}

func TestRedisMatrixCacheCorruptValue(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisMatrixCache(client, "", 0)

	if err := mr.Set("k", "not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := c.GetMatrix(context.Background(), "k"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestRedisMatrixCacheUnavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisMatrixCache(client, "", 0)
	mr.Close()

	if _, _, err := c.GetMatrix(context.Background(), "k"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
