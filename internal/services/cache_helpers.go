package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"ratecard-service/internal/cache"
)

// Read-through helpers around the cache store. A cache failure is never a
// request failure: unreadable or unreachable entries just fall through to the
// database.

func cacheGet(ctx context.Context, store cache.Store, key string, dest any) bool {
	if store == nil {
		return false
	}
	raw, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			slog.Warn("Cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		slog.Warn("Discarding unreadable cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func cacheSet(ctx context.Context, store cache.Store, key string, value any, ttl time.Duration) {
	if store == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Warn("Cache encode failed", "key", key, "error", err)
		return
	}
	if err := store.Set(ctx, key, raw, ttl); err != nil {
		slog.Warn("Cache write failed", "key", key, "error", err)
	}
}
