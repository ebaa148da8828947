// Copyright (c) 2026 Veranda Systems. All rights reserved.

/*
Package cache implements the cache-aside read path shared by every entity service.

It wraps the Redis client with a get-or-populate discipline and best-effort
invalidation. The cache is a pure optimization and NEVER a source of truth:

  - A backend failure on read is treated as a miss and the populate function runs.
  - A backend failure on write/invalidate is logged and swallowed.
  - Business errors raised inside populate propagate unchanged; the cache layer
    must never reshape a NotFound into something else.

Key Taxonomy:

  - Single entity:   "<type>:<id>"              e.g. "unit:4b7b…"
  - Paginated list:  "<type>:…:<page>:<limit>"  e.g. "units:building:9aa1…:1:20"
  - Invalidation:    "<type>*"                  conservative, covers all lists
*/
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides the cache-aside primitives over a Redis backend.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

// New constructs a [Cache] around an already-connected Redis client.
func New(client *redis.Client, logger *slog.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// # Raw Key Operations

/*
Get retrieves the raw serialized value for a key.

Returns:
  - string: Serialized payload
  - bool: Whether the key was present
*/
func (cache *Cache) Get(context context.Context, key string) (string, bool) {
	value, err := cache.client.Get(context, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.Warn("cache_get_failed", slog.String("key", key), slog.Any("error", err))
		}
		return "", false
	}
	return value, true
}

/*
Set stores a serialized value under a key with a TTL. Best effort.
*/
func (cache *Cache) Set(context context.Context, key, value string, ttl time.Duration) {
	if err := cache.client.Set(context, key, value, ttl).Err(); err != nil {
		cache.logger.Warn("cache_set_failed", slog.String("key", key), slog.Any("error", err))
	}
}

/*
Invalidate deletes one or more exact keys. Best effort: backend errors are
logged, never returned, so a cache outage can never fail a mutation.
*/
func (cache *Cache) Invalidate(context context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := cache.client.Del(context, keys...).Err(); err != nil {
		cache.logger.Warn("cache_invalidate_failed", slog.Any("keys", keys), slog.Any("error", err))
	}
}

/*
InvalidatePattern deletes every key matching a glob pattern. Best effort.

Description: Uses SCAN rather than KEYS to avoid blocking Redis on large
keyspaces. Every entity mutation calls this with the type-wide list pattern
(e.g. "units:*") so no stale page can survive the write.
*/
func (cache *Cache) InvalidatePattern(context context.Context, pattern string) {
	iterator := cache.client.Scan(context, 0, pattern, 0).Iterator()

	var keys []string
	for iterator.Next(context) {
		keys = append(keys, iterator.Val())
	}

	if err := iterator.Err(); err != nil {
		cache.logger.Warn("cache_scan_failed", slog.String("pattern", pattern), slog.Any("error", err))
		return
	}

	if len(keys) == 0 {
		return
	}

	if err := cache.client.Del(context, keys...).Err(); err != nil {
		cache.logger.Warn("cache_invalidate_pattern_failed", slog.String("pattern", pattern), slog.Any("error", err))
	}
}

// # Cache-Aside Read Path

/*
GetOrSet returns the cached value for key, or runs populate on a miss.

Description: On a hit the deserialized value is returned without calling
populate. A backend error or a corrupt payload counts as a miss. On a miss
the populate result is stored best-effort under the key with the given TTL.
Populate errors propagate unchanged to the caller.

Parameters:
  - context: context.Context
  - cache: *Cache
  - key: string
  - ttl: time.Duration
  - populate: func(context.Context) (T, error)

Returns:
  - T: Cached or freshly-populated value
  - error: Only ever populate's own error
*/
func GetOrSet[T any](context context.Context, cache *Cache, key string, ttl time.Duration, populate func(context.Context) (T, error)) (T, error) {
	if raw, ok := cache.Get(context, key); ok {
		var cached T
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
		// Corrupt entry: drop it and fall through to populate.
		cache.logger.Warn("cache_decode_failed", slog.String("key", key))
		cache.Invalidate(context, key)
	}

	value, err := populate(context)
	if err != nil {
		var zero T
		return zero, err
	}

	serialized, err := json.Marshal(value)
	if err != nil {
		cache.logger.Warn("cache_encode_failed", slog.String("key", key), slog.Any("error", err))
		return value, nil
	}

	cache.Set(context, key, string(serialized), ttl)
	return value, nil
}

// Key builds a single-entity cache key ("<type>:<id>").
func Key(entityType, id string) string {
	return entityType + ":" + id
}

// ListKey builds a paginated list cache key from the given segments.
func ListKey(segments ...any) string {
	key := ""
	for i, segment := range segments {
		if i > 0 {
			key += ":"
		}
		key += fmt.Sprint(segment)
	}
	return key
}

// Pattern builds the conservative type-wide invalidation pattern ("<prefix>*").
func Pattern(prefix string) string {
	return prefix + "*"
}
