// Copyright (c) 2026 Veranda Systems. All rights reserved.

package unit_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verandahq/veranda/internal/core/unit"
	"github.com/verandahq/veranda/internal/platform/apperr"
	"github.com/verandahq/veranda/internal/platform/cache"
)

// fakeRepository is an in-memory [unit.Repository] with read counters.
type fakeRepository struct {
	byID  map[string]*unit.Unit
	gets  int
	lists int
}

func newFakeRepository(units ...*unit.Unit) *fakeRepository {
	repository := &fakeRepository{byID: map[string]*unit.Unit{}}
	for _, u := range units {
		repository.byID[u.ID] = u
	}
	return repository
}

func (repository *fakeRepository) ListUnits(_ context.Context, buildingID string, limit, offset int) ([]*unit.Unit, int, error) {
	repository.lists++
	var units []*unit.Unit
	for _, u := range repository.byID {
		if u.BuildingID == buildingID && u.DeletedAt == nil {
			units = append(units, u)
		}
	}
	return units, len(units), nil
}

func (repository *fakeRepository) GetUnit(_ context.Context, id string, includeDeleted bool) (*unit.Unit, error) {
	repository.gets++
	u, ok := repository.byID[id]
	if !ok || (u.DeletedAt != nil && !includeDeleted) {
		return nil, apperr.NotFound("Unit")
	}
	copied := *u
	return &copied, nil
}

func (repository *fakeRepository) CreateUnit(_ context.Context, u *unit.Unit) error {
	for _, existing := range repository.byID {
		if existing.BuildingID == u.BuildingID && existing.UnitNumber == u.UnitNumber && existing.DeletedAt == nil {
			return apperr.Conflict("Resource already exists")
		}
	}
	repository.byID[u.ID] = u
	return nil
}

func (repository *fakeRepository) UpdateUnit(_ context.Context, u *unit.Unit) error {
	stored, ok := repository.byID[u.ID]
	if !ok || stored.DeletedAt != nil {
		return apperr.NotFound("Unit")
	}
	copied := *u
	repository.byID[u.ID] = &copied
	return nil
}

func (repository *fakeRepository) DeleteUnit(_ context.Context, id string) error {
	u, ok := repository.byID[id]
	if !ok || u.DeletedAt != nil {
		return apperr.NotFound("Unit")
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

func (repository *fakeRepository) AssignResident(_ context.Context, id string, residentID *string) error {
	u, ok := repository.byID[id]
	if !ok {
		return apperr.NotFound("Unit")
	}
	u.CurrentResidentID = residentID
	u.IsOccupied = residentID != nil
	if residentID != nil {
		u.Status = unit.StatusOccupied
	} else {
		u.Status = unit.StatusAvailable
	}
	return nil
}

type fixture struct {
	service    *unit.Service
	repository *fakeRepository
	redis      *miniredis.Miniredis
}

func newFixture(t *testing.T, units ...*unit.Unit) *fixture {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	logger := slog.New(slog.DiscardHandler)

	repository := newFakeRepository(units...)
	return &fixture{
		service:    unit.NewService(repository, cache.New(client, logger), logger),
		repository: repository,
		redis:      server,
	}
}

func sampleUnit(id, buildingID, number string) *unit.Unit {
	return &unit.Unit{
		ID:         id,
		UnitNumber: number,
		Floor:      3,
		Bedrooms:   2,
		Bathrooms:  1,
		Status:     unit.StatusAvailable,
		BuildingID: buildingID,
	}
}

/*
TestService_GetUnit verifies the cache-aside entity read path.
*/
func TestService_GetUnit(t *testing.T) {
	t.Run("second_read_is_a_cache_hit", func(t *testing.T) {
		f := newFixture(t, sampleUnit("u1", "b1", "3A"))

		first, err := f.service.GetUnit(context.Background(), "u1", false)
		require.NoError(t, err)
		second, err := f.service.GetUnit(context.Background(), "u1", false)
		require.NoError(t, err)

		assert.Equal(t, first.UnitNumber, second.UnitNumber)
		assert.Equal(t, 1, f.repository.gets)
	})

	t.Run("include_deleted_bypasses_cache_and_sees_deleted_rows", func(t *testing.T) {
		f := newFixture(t, sampleUnit("u1", "b1", "3A"))

		_, err := f.service.GetUnit(context.Background(), "u1", false)
		require.NoError(t, err)
		require.NoError(t, f.service.DeleteUnit(context.Background(), "u1"))

		_, err = f.service.GetUnit(context.Background(), "u1", false)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

		deleted, err := f.service.GetUnit(context.Background(), "u1", true)
		require.NoError(t, err)
		assert.NotNil(t, deleted.DeletedAt)

		// The bypass read went straight to the store, never through the cache.
		gets := f.repository.gets
		_, err = f.service.GetUnit(context.Background(), "u1", true)
		require.NoError(t, err)
		assert.Equal(t, gets+1, f.repository.gets)
	})

	t.Run("not_found_propagates_and_is_not_cached", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.GetUnit(context.Background(), "ghost", false)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

		// The miss was not negatively cached; a second read hits the store again.
		_, _ = f.service.GetUnit(context.Background(), "ghost", false)
		assert.Equal(t, 2, f.repository.gets)
	})

	t.Run("redis_outage_degrades_to_store_reads", func(t *testing.T) {
		f := newFixture(t, sampleUnit("u1", "b1", "3A"))
		f.redis.Close()

		_, err := f.service.GetUnit(context.Background(), "u1", false)
		require.NoError(t, err)
		_, err = f.service.GetUnit(context.Background(), "u1", false)
		require.NoError(t, err)

		assert.Equal(t, 2, f.repository.gets)
	})
}

/*
TestService_ListUnits verifies the per-building list page cache and its
invalidation on mutation.
*/
func TestService_ListUnits(t *testing.T) {
	t.Run("page_is_cached_per_building", func(t *testing.T) {
		f := newFixture(t, sampleUnit("u1", "b1", "3A"), sampleUnit("u2", "b1", "3B"))

		units, total, err := f.service.ListUnits(context.Background(), "b1", 1, 20)
		require.NoError(t, err)
		assert.Len(t, units, 2)
		assert.Equal(t, 2, total)

		_, _, err = f.service.ListUnits(context.Background(), "b1", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, 1, f.repository.lists)

		// A different page or building is its own key.
		_, _, err = f.service.ListUnits(context.Background(), "b1", 2, 20)
		require.NoError(t, err)
		assert.Equal(t, 2, f.repository.lists)
	})

	t.Run("create_invalidates_list_pages", func(t *testing.T) {
		f := newFixture(t, sampleUnit("u1", "b1", "3A"))

		_, _, err := f.service.ListUnits(context.Background(), "b1", 1, 20)
		require.NoError(t, err)

		err = f.service.CreateUnit(context.Background(), sampleUnit("", "b1", "3B"))
		require.NoError(t, err)

		units, _, err := f.service.ListUnits(context.Background(), "b1", 1, 20)
		require.NoError(t, err)
		assert.Len(t, units, 2)
		assert.Equal(t, 2, f.repository.lists)
	})

	t.Run("delete_invalidates_entity_and_lists", func(t *testing.T) {
		f := newFixture(t, sampleUnit("u1", "b1", "3A"))

		_, err := f.service.GetUnit(context.Background(), "u1", false)
		require.NoError(t, err)

		require.NoError(t, f.service.DeleteUnit(context.Background(), "u1"))

		_, err = f.service.GetUnit(context.Background(), "u1", false)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_CreateUnit covers validation and the per-building unit number
uniqueness conflict.
*/
func TestService_CreateUnit(t *testing.T) {
	t.Run("duplicate_number_in_building_conflicts", func(t *testing.T) {
		f := newFixture(t, sampleUnit("u1", "b1", "3A"))

		err := f.service.CreateUnit(context.Background(), sampleUnit("", "b1", "3A"))
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})

	t.Run("same_number_in_other_building_is_fine", func(t *testing.T) {
		f := newFixture(t, sampleUnit("u1", "b1", "3A"))

		err := f.service.CreateUnit(context.Background(), sampleUnit("", "b2", "3A"))
		assert.NoError(t, err)
	})

	t.Run("missing_number_fails_validation", func(t *testing.T) {
		f := newFixture(t)

		u := sampleUnit("", "b1", "")
		err := f.service.CreateUnit(context.Background(), u)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("unknown_status_fails_validation", func(t *testing.T) {
		f := newFixture(t)

		u := sampleUnit("", "b1", "3A")
		u.Status = "CONDEMNED"
		err := f.service.CreateUnit(context.Background(), u)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestService_AssignResident covers occupancy toggling.
*/
func TestService_AssignResident(t *testing.T) {
	f := newFixture(t, sampleUnit("u1", "b1", "3A"))

	residentID := "r1"
	require.NoError(t, f.service.AssignResident(context.Background(), "u1", &residentID))

	occupied, err := f.service.GetUnit(context.Background(), "u1", false)
	require.NoError(t, err)
	assert.True(t, occupied.IsOccupied)
	assert.Equal(t, unit.StatusOccupied, occupied.Status)

	require.NoError(t, f.service.AssignResident(context.Background(), "u1", nil))

	vacated, err := f.service.GetUnit(context.Background(), "u1", false)
	require.NoError(t, err)
	assert.False(t, vacated.IsOccupied)
	assert.Nil(t, vacated.CurrentResidentID)
	assert.Equal(t, unit.StatusAvailable, vacated.Status)
}
