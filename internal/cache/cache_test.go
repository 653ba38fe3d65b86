package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/flashmind/flashmind-server/internal/config"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)

	port, err := strconv.Atoi(server.Port())
	if err != nil {
		t.Fatalf("Failed to parse miniredis port: %v", err)
	}

	cfg := &config.RedisConfig{
		Host:     server.Host(),
		Port:     port,
		DB:       0,
		PoolSize: 2,
	}

	cache, err := NewRedisCache(cfg, logger.New("debug", "json", "stdout"))
	if err != nil {
		t.Fatalf("Failed to connect to test redis: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	return cache, server
}

func TestSetGet_RoundTrip(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "leaderboard:top:10", `[{"rank":1}]`, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := cache.Get(ctx, "leaderboard:top:10")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != `[{"rank":1}]` {
		t.Errorf("Unexpected value: %s", val)
	}
}

func TestGet_MissingKeyReturnsEmpty(t *testing.T) {
	cache, _ := setupTestCache(t)

	val, err := cache.Get(context.Background(), "no-such-key")
	if err != nil {
		t.Fatalf("Missing key must not error, got %v", err)
	}
	if val != "" {
		t.Errorf("Expected empty string for missing key, got %q", val)
	}
}

func TestSet_ExpirationHonored(t *testing.T) {
	cache, server := setupTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "ephemeral", "x", 30*time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	server.FastForward(time.Minute)

	val, err := cache.Get(ctx, "ephemeral")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "" {
		t.Errorf("Expected expired key to be gone, got %q", val)
	}
}

func TestDel(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "a", "1", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Set(ctx, "b", "2", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := cache.Del(ctx, "a", "b"); err != nil {
		t.Fatalf("Del failed: %v", err)
	}

	for _, key := range []string{"a", "b"} {
		val, err := cache.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if val != "" {
			t.Errorf("Expected key %s deleted, got %q", key, val)
		}
	}

	// Deleting nothing is a no-op
	if err := cache.Del(ctx); err != nil {
		t.Errorf("Del with no keys should be a no-op, got %v", err)
	}
}
