// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache of rendered page documents.
// When a public page is rendered, the resulting HTML is stored in Valkey
// keyed by page id so subsequent requests skip the DB queries and the
// document render entirely. Admin mutations invalidate the touched page.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached page documents.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered document stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages rendered-document caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves the cached document for a page. Returns false on miss.
func (pc *PageCache) Get(ctx context.Context, pageID uuid.UUID) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+pageID.String()).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "page_id", pageID, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "page_id", pageID)
	return val, true
}

// Set stores a rendered document with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, pageID uuid.UUID, html []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+pageID.String(), html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "page_id", pageID, "error", err)
	}
}

// InvalidatePage removes a single page's cached document. Called after
// any mutation that touches the page or its tiles.
func (pc *PageCache) InvalidatePage(ctx context.Context, pageID uuid.UUID) {
	if err := pc.client.Del(ctx, pageKeyPrefix+pageID.String()).Err(); err != nil {
		slog.Warn("page cache invalidate error", "page_id", pageID, "error", err)
	}
	slog.Debug("page cache invalidated", "page_id", pageID)
}

// InvalidateAll removes all cached documents by scanning for the prefix.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}
