// Copyright (c) 2026 Veranda Systems. All rights reserved.

package commonspace

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/verandahq/veranda/internal/platform/cache"
	"github.com/verandahq/veranda/internal/platform/constants"
	"github.com/verandahq/veranda/internal/platform/validate"
	"github.com/verandahq/veranda/pkg/uuid"
)

const cacheEntity = "commonspace"

// clockRegex matches a 24h "HH:MM" wall-clock value.
var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

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

func (service *Service) ListCommonSpaces(context context.Context, condominiumID string, limit, offset int) ([]*CommonSpace, int, error) {
	return service.repo.ListCommonSpaces(context, condominiumID, limit, offset)
}

func (service *Service) GetCommonSpace(ctx context.Context, id string) (*CommonSpace, error) {
	return cache.GetOrSet(ctx, service.cache, cache.Key(cacheEntity, id), constants.CacheTTLEntity,
		func(ctx context.Context) (*CommonSpace, error) {
			return service.repo.GetCommonSpace(ctx, id)
		})
}

func (service *Service) CreateCommonSpace(context context.Context, space *CommonSpace) error {
	if err := validateCommonSpace(space); err != nil {
		return err
	}

	space.ID = uuid.New()
	space.IsActive = true

	if err := service.repo.CreateCommonSpace(context, space); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("common_space_created",
		slog.String("common_space_id", space.ID),
		slog.String("condominium_id", space.CondominiumID),
	)
	return nil
}

func (service *Service) UpdateCommonSpace(context context.Context, id string, space *CommonSpace) error {
	space.ID = id
	if err := validateCommonSpace(space); err != nil {
		return err
	}

	if err := service.repo.UpdateCommonSpace(context, space); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("common_space_updated", slog.String("common_space_id", id))
	return nil
}

func (service *Service) DeleteCommonSpace(context context.Context, id string) error {
	if err := service.repo.DeleteCommonSpace(context, id); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Warn("common_space_deleted", slog.String("common_space_id", id))
	return nil
}

func validateCommonSpace(space *CommonSpace) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, space.Name).MaxLen(FieldName, space.Name, 200)
	validator.Range(FieldCapacity, space.Capacity, 1, 10000)
	validator.Custom(FieldOpensAt, !clockRegex.MatchString(space.OpensAt), "Must be a 24h HH:MM time")
	validator.Custom(FieldClosesAt, !clockRegex.MatchString(space.ClosesAt), "Must be a 24h HH:MM time")

	// String comparison is safe for zero-padded 24h clock values.
	if clockRegex.MatchString(space.OpensAt) && clockRegex.MatchString(space.ClosesAt) {
		validator.Custom(FieldClosesAt, space.ClosesAt <= space.OpensAt, "Must be after opens_at")
	}

	return validator.Err()
}
