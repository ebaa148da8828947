// Copyright (c) 2026 Veranda Systems. All rights reserved.

package resident

import (
	"context"
	"log/slog"

	"github.com/verandahq/veranda/internal/platform/cache"
	"github.com/verandahq/veranda/internal/platform/constants"
	"github.com/verandahq/veranda/internal/platform/validate"
	"github.com/verandahq/veranda/pkg/uuid"
)

const cacheEntity = "resident"

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

func (service *Service) ListResidents(context context.Context, condominiumID string, filter Filter, limit, offset int) ([]*Resident, int, error) {
	return service.repo.ListResidents(context, condominiumID, filter, limit, offset)
}

// GetResident reads through the cache. Deleted rows bypass it so the
// administrative view always reflects live row state.
func (service *Service) GetResident(ctx context.Context, id string, includeDeleted bool) (*Resident, error) {
	if includeDeleted {
		return service.repo.GetResident(ctx, id, true)
	}

	return cache.GetOrSet(ctx, service.cache, cache.Key(cacheEntity, id), constants.CacheTTLEntity,
		func(ctx context.Context) (*Resident, error) {
			return service.repo.GetResident(ctx, id, false)
		})
}

func (service *Service) CreateResident(context context.Context, resident *Resident) error {
	if err := validateResident(resident); err != nil {
		return err
	}

	resident.ID = uuid.New()
	resident.IsActive = true

	if err := service.repo.CreateResident(context, resident); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("resident_created",
		slog.String("resident_id", resident.ID),
		slog.String("condominium_id", resident.CondominiumID),
	)
	return nil
}

func (service *Service) UpdateResident(context context.Context, id string, resident *Resident) error {
	resident.ID = id
	if err := validateResident(resident); err != nil {
		return err
	}

	if err := service.repo.UpdateResident(context, resident); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("resident_updated", slog.String("resident_id", id))
	return nil
}

func (service *Service) DeleteResident(context context.Context, id string) error {
	if err := service.repo.DeleteResident(context, id); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Warn("resident_deleted", slog.String("resident_id", id))
	return nil
}

// MoveOut finalizes a residency. Already-moved-out residents surface as
// NotFound because the live predicate no longer matches.
func (service *Service) MoveOut(context context.Context, id string) error {
	if err := service.repo.MoveOut(context, id); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("resident_moved_out", slog.String("resident_id", id))
	return nil
}

func validateResident(resident *Resident) error {
	validator := &validate.Validator{}

	validator.Required(FieldFirstName, resident.FirstName).MaxLen(FieldFirstName, resident.FirstName, 100)
	validator.Required(FieldLastName, resident.LastName).MaxLen(FieldLastName, resident.LastName, 100)
	validator.Required(FieldEmail, resident.Email).Email(FieldEmail, resident.Email)
	validator.OneOf(FieldResidentType, resident.ResidentType, TypeOwner, TypeTenant, TypeFamily)

	return validator.Err()
}
