// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testPageCache builds a PageCache against the test Valkey (DB 15) and
// removes page keys afterwards. Skips when Valkey is unreachable.
func testPageCache(t *testing.T, ttl time.Duration) *PageCache {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		if keys, _ := client.Keys(ctx, "page:*").Result(); len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return NewPageCache(client, ttl)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	client, err := ConnectValkey(envOr("VALKEY_HOST", "localhost"), envOr("VALKEY_PORT", "6379"), os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	if pong, err := client.Ping(context.Background()).Result(); err != nil || pong != "PONG" {
		t.Errorf("ping: got (%q, %v)", pong, err)
	}
}

func TestPageCacheRoundTrip(t *testing.T) {
	pc := testPageCache(t, time.Minute)
	ctx := context.Background()
	pageID := uuid.New()

	if data, ok := pc.Get(ctx, pageID); ok || data != nil {
		t.Errorf("fresh key should miss, got (%q, %v)", data, ok)
	}

	doc := []byte("<html><body>Spring Launch</body></html>")
	pc.Set(ctx, pageID, doc)

	data, ok := pc.Get(ctx, pageID)
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	if !bytes.Equal(data, doc) {
		t.Errorf("cached document mismatch: got %q", data)
	}
}

func TestPageCacheInvalidatePage(t *testing.T) {
	pc := testPageCache(t, time.Minute)
	ctx := context.Background()

	keep := uuid.New()
	drop := uuid.New()
	pc.Set(ctx, keep, []byte("keep"))
	pc.Set(ctx, drop, []byte("drop"))

	pc.InvalidatePage(ctx, drop)

	if _, ok := pc.Get(ctx, drop); ok {
		t.Error("invalidated page should miss")
	}
	if _, ok := pc.Get(ctx, keep); !ok {
		t.Error("other pages should be untouched")
	}
}

func TestPageCacheInvalidateAll(t *testing.T) {
	pc := testPageCache(t, time.Minute)
	ctx := context.Background()

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for i, id := range ids {
		pc.Set(ctx, id, []byte{byte('a' + i)})
	}

	pc.InvalidateAll(ctx)

	for _, id := range ids {
		if _, ok := pc.Get(ctx, id); ok {
			t.Errorf("page %s should be gone after InvalidateAll", id)
		}
	}
}

func TestNewPageCacheDefaultTTL(t *testing.T) {
	pc := testPageCache(t, 0)
	if pc.ttl != DefaultPageTTL {
		t.Errorf("zero TTL should fall back to %v, got %v", DefaultPageTTL, pc.ttl)
	}
}
