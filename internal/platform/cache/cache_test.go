// Copyright (c) 2026 Veranda Systems. All rights reserved.

package cache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verandahq/veranda/internal/platform/apperr"
	"github.com/verandahq/veranda/internal/platform/cache"
)

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return cache.New(client, logger), server
}

type testEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

/*
TestGetOrSet_PopulateOnce verifies the round-trip contract: two reads of an
unchanged key invoke populate exactly once.
*/
func TestGetOrSet_PopulateOnce(t *testing.T) {
	cacheService, _ := newTestCache(t)
	ctx := context.Background()

	populateCalls := 0
	populate := func(context.Context) (testEntity, error) {
		populateCalls++
		return testEntity{ID: "u1", Name: "Tower A"}, nil
	}

	first, err := cache.GetOrSet(ctx, cacheService, "unit:u1", time.Minute, populate)
	require.NoError(t, err)
	assert.Equal(t, "Tower A", first.Name)

	second, err := cache.GetOrSet(ctx, cacheService, "unit:u1", time.Minute, populate)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, 1, populateCalls)
}

/*
TestGetOrSet_MissAfterInvalidation verifies that a mutation-style invalidation
forces populate to run again.
*/
func TestGetOrSet_MissAfterInvalidation(t *testing.T) {
	cacheService, _ := newTestCache(t)
	ctx := context.Background()

	populateCalls := 0
	populate := func(context.Context) (testEntity, error) {
		populateCalls++
		return testEntity{ID: "u1"}, nil
	}

	_, err := cache.GetOrSet(ctx, cacheService, "unit:u1", time.Minute, populate)
	require.NoError(t, err)

	cacheService.Invalidate(ctx, "unit:u1")

	_, err = cache.GetOrSet(ctx, cacheService, "unit:u1", time.Minute, populate)
	require.NoError(t, err)

	assert.Equal(t, 2, populateCalls)
}

/*
TestGetOrSet_PopulateErrorPropagates ensures business errors (e.g. NotFound)
surface unchanged and nothing is cached.
*/
func TestGetOrSet_PopulateErrorPropagates(t *testing.T) {
	cacheService, server := newTestCache(t)
	ctx := context.Background()

	notFound := apperr.NotFound("Unit")
	_, err := cache.GetOrSet(ctx, cacheService, "unit:missing", time.Minute, func(context.Context) (testEntity, error) {
		return testEntity{}, notFound
	})

	require.Error(t, err)
	assert.Equal(t, notFound, apperr.As(err))
	assert.False(t, server.Exists("unit:missing"))
}

/*
TestGetOrSet_BackendDownIsMiss treats an unreachable backend as a miss: the
populate result is still served and no error leaks to the caller.
*/
func TestGetOrSet_BackendDownIsMiss(t *testing.T) {
	cacheService, server := newTestCache(t)
	ctx := context.Background()

	server.Close() // simulate cache outage

	value, err := cache.GetOrSet(ctx, cacheService, "unit:u1", time.Minute, func(context.Context) (testEntity, error) {
		return testEntity{ID: "u1", Name: "Tower A"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Tower A", value.Name)
}

/*
TestGetOrSet_CorruptEntryFallsThrough drops undecodable payloads and repopulates.
*/
func TestGetOrSet_CorruptEntryFallsThrough(t *testing.T) {
	cacheService, server := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, server.Set("unit:u1", "{not-json"))

	value, err := cache.GetOrSet(ctx, cacheService, "unit:u1", time.Minute, func(context.Context) (testEntity, error) {
		return testEntity{ID: "u1"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "u1", value.ID)
}

/*
TestInvalidatePattern wipes every key matching the type-wide glob while
leaving other entity types untouched.
*/
func TestInvalidatePattern(t *testing.T) {
	cacheService, server := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, server.Set("units:building:b1:1:20", "[]"))
	require.NoError(t, server.Set("units:building:b1:2:20", "[]"))
	require.NoError(t, server.Set("unit:u1", "{}"))
	require.NoError(t, server.Set("resident:r1", "{}"))

	cacheService.InvalidatePattern(ctx, "unit*")

	assert.False(t, server.Exists("units:building:b1:1:20"))
	assert.False(t, server.Exists("units:building:b1:2:20"))
	assert.False(t, server.Exists("unit:u1"))
	assert.True(t, server.Exists("resident:r1"))
}

/*
TestInvalidate_BackendDown verifies invalidation never returns an error even
when the backend is gone.
*/
func TestInvalidate_BackendDown(t *testing.T) {
	cacheService, server := newTestCache(t)
	server.Close()

	// Both calls must be silent no-ops.
	cacheService.Invalidate(context.Background(), "unit:u1")
	cacheService.InvalidatePattern(context.Background(), "unit*")
}

/*
TestKeyHelpers covers the deterministic key builders.
*/
func TestKeyHelpers(t *testing.T) {
	assert.Equal(t, "unit:u1", cache.Key("unit", "u1"))
	assert.Equal(t, "units:building:b1:2:50", cache.ListKey("units", "building", "b1", 2, 50))
	assert.Equal(t, "unit*", cache.Pattern("unit"))
}
