// Copyright (c) 2026 Veranda Systems. All rights reserved.

package building

import (
	"context"
	"log/slog"

	"github.com/verandahq/veranda/internal/platform/cache"
	"github.com/verandahq/veranda/internal/platform/constants"
	"github.com/verandahq/veranda/internal/platform/validate"
	"github.com/verandahq/veranda/pkg/uuid"
)

const cacheEntity = "building"

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

func (service *Service) ListBuildings(context context.Context, condominiumID string, limit, offset int) ([]*Building, int, error) {
	return service.repo.ListBuildings(context, condominiumID, limit, offset)
}

// GetBuilding reads through the cache. Deleted rows bypass it so the
// administrative view always reflects live row state.
func (service *Service) GetBuilding(ctx context.Context, id string, includeDeleted bool) (*Building, error) {
	if includeDeleted {
		return service.repo.GetBuilding(ctx, id, true)
	}

	return cache.GetOrSet(ctx, service.cache, cache.Key(cacheEntity, id), constants.CacheTTLEntity,
		func(ctx context.Context) (*Building, error) {
			return service.repo.GetBuilding(ctx, id, false)
		})
}

func (service *Service) CreateBuilding(context context.Context, building *Building) error {
	if err := validateBuilding(building); err != nil {
		return err
	}

	building.ID = uuid.New()

	if err := service.repo.CreateBuilding(context, building); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("building_created",
		slog.String("building_id", building.ID),
		slog.String("condominium_id", building.CondominiumID),
	)
	return nil
}

func (service *Service) UpdateBuilding(context context.Context, id string, building *Building) error {
	building.ID = id
	if err := validateBuilding(building); err != nil {
		return err
	}

	if err := service.repo.UpdateBuilding(context, building); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("building_updated", slog.String("building_id", id))
	return nil
}

func (service *Service) DeleteBuilding(context context.Context, id string) error {
	if err := service.repo.DeleteBuilding(context, id); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Warn("building_deleted", slog.String("building_id", id))
	return nil
}

func validateBuilding(building *Building) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, building.Name).MaxLen(FieldName, building.Name, 200)
	validator.Range(FieldFloors, building.Floors, 1, 200)

	return validator.Err()
}
