// Copyright (c) 2026 Veranda Systems. All rights reserved.

package unit

import (
	"context"
	"log/slog"

	"github.com/verandahq/veranda/internal/platform/cache"
	"github.com/verandahq/veranda/internal/platform/constants"
	"github.com/verandahq/veranda/internal/platform/validate"
	"github.com/verandahq/veranda/pkg/uuid"
)

// Cache key taxonomy: unit:{id} for entities, units:building:{id}:{page}:{limit}
// for list pages. Mutations wipe both via the units* / unit* patterns.
const (
	cacheEntity     = "unit"
	cacheListPrefix = "units"
)

// listPage pairs a cached page with its total row count.
type listPage struct {
	Units []*Unit `json:"units"`
	Total int     `json:"total"`
}

type Service struct {
	repo   Repository
	cache  *cache.Cache
	logger *slog.Logger
}

func NewService(repo Repository, cache *cache.Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// ListUnits serves list pages cache-aside, keyed by building, page, and limit.
func (service *Service) ListUnits(ctx context.Context, buildingID string, page, limit int) ([]*Unit, int, error) {
	key := cache.ListKey(cacheListPrefix, "building", buildingID, page, limit)
	offset := (page - 1) * limit

	result, err := cache.GetOrSet(ctx, service.cache, key, constants.CacheTTLList,
		func(ctx context.Context) (listPage, error) {
			units, total, err := service.repo.ListUnits(ctx, buildingID, limit, offset)
			if err != nil {
				return listPage{}, err
			}
			return listPage{Units: units, Total: total}, nil
		})
	if err != nil {
		return nil, 0, err
	}

	return result.Units, result.Total, nil
}

// GetUnit reads through the cache. Deleted rows bypass it so the
// administrative view always reflects live row state.
func (service *Service) GetUnit(ctx context.Context, id string, includeDeleted bool) (*Unit, error) {
	if includeDeleted {
		return service.repo.GetUnit(ctx, id, true)
	}

	return cache.GetOrSet(ctx, service.cache, cache.Key(cacheEntity, id), constants.CacheTTLEntity,
		func(ctx context.Context) (*Unit, error) {
			return service.repo.GetUnit(ctx, id, false)
		})
}

func (service *Service) CreateUnit(context context.Context, unit *Unit) error {
	if err := validateUnit(unit); err != nil {
		return err
	}

	unit.ID = uuid.New()
	if unit.Status == "" {
		unit.Status = StatusAvailable
	}

	if err := service.repo.CreateUnit(context, unit); err != nil {
		return err
	}

	service.invalidate(context, unit.ID)

	service.logger.Info("unit_created",
		slog.String("unit_id", unit.ID),
		slog.String("building_id", unit.BuildingID),
		slog.String("unit_number", unit.UnitNumber),
	)
	return nil
}

func (service *Service) UpdateUnit(context context.Context, id string, unit *Unit) error {
	unit.ID = id
	if err := validateUnit(unit); err != nil {
		return err
	}

	if err := service.repo.UpdateUnit(context, unit); err != nil {
		return err
	}

	service.invalidate(context, id)

	service.logger.Info("unit_updated", slog.String("unit_id", id))
	return nil
}

func (service *Service) DeleteUnit(context context.Context, id string) error {
	if err := service.repo.DeleteUnit(context, id); err != nil {
		return err
	}

	service.invalidate(context, id)

	service.logger.Warn("unit_deleted", slog.String("unit_id", id))
	return nil
}

// AssignResident links or unlinks the current occupant.
func (service *Service) AssignResident(context context.Context, id string, residentID *string) error {
	if err := service.repo.AssignResident(context, id, residentID); err != nil {
		return err
	}

	service.invalidate(context, id)

	service.logger.Info("unit_resident_assigned",
		slog.String("unit_id", id),
		slog.Bool("vacated", residentID == nil),
	)
	return nil
}

// invalidate drops the entity key and every cached list page. The list
// pattern is intentionally broad: a unit mutation may move rows between
// pages, so per-page invalidation cannot be trusted.
func (service *Service) invalidate(context context.Context, id string) {
	service.cache.Invalidate(context, cache.Key(cacheEntity, id))
	service.cache.InvalidatePattern(context, cache.Pattern(cacheListPrefix))
}

func validateUnit(unit *Unit) error {
	validator := &validate.Validator{}

	validator.Required(FieldUnitNumber, unit.UnitNumber).MaxLen(FieldUnitNumber, unit.UnitNumber, 20)
	validator.Range(FieldFloor, unit.Floor, -5, 200)
	if unit.Status != "" {
		validator.OneOf(FieldStatus, unit.Status, StatusAvailable, StatusOccupied, StatusMaintenance)
	}

	return validator.Err()
}
