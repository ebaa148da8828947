// Copyright (c) 2026 Veranda Systems. All rights reserved.

package condominium

import (
	"context"
	"log/slog"

	"github.com/verandahq/veranda/internal/platform/cache"
	"github.com/verandahq/veranda/internal/platform/constants"
	"github.com/verandahq/veranda/internal/platform/validate"
	"github.com/verandahq/veranda/pkg/uuid"
)

// cacheEntity prefixes all condominium cache keys.
const cacheEntity = "condominium"

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

func (service *Service) ListCondominiums(context context.Context, filter Filter, limit, offset int) ([]*Condominium, int, error) {
	return service.repo.ListCondominiums(context, filter, limit, offset)
}

// GetCondominium reads through the cache; a miss falls back to Postgres and
// installs the row for subsequent reads. Deleted rows are never cached, so
// the administrative bypass always observes the live row state.
func (service *Service) GetCondominium(ctx context.Context, id string, includeDeleted bool) (*Condominium, error) {
	if includeDeleted {
		return service.repo.GetCondominium(ctx, id, true)
	}

	return cache.GetOrSet(ctx, service.cache, cache.Key(cacheEntity, id), constants.CacheTTLEntity,
		func(ctx context.Context) (*Condominium, error) {
			return service.repo.GetCondominium(ctx, id, false)
		})
}

func (service *Service) CreateCondominium(context context.Context, condominium *Condominium) error {
	if err := validateCondominium(condominium); err != nil {
		return err
	}

	condominium.ID = uuid.New()
	condominium.IsActive = true

	if err := service.repo.CreateCondominium(context, condominium); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("condominium_created",
		slog.String("condominium_id", condominium.ID),
		slog.String("name", condominium.Name),
	)
	return nil
}

func (service *Service) UpdateCondominium(context context.Context, id string, condominium *Condominium) error {
	condominium.ID = id
	if err := validateCondominium(condominium); err != nil {
		return err
	}

	if err := service.repo.UpdateCondominium(context, condominium); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("condominium_updated", slog.String("condominium_id", id))
	return nil
}

func (service *Service) DeleteCondominium(context context.Context, id string) error {
	if err := service.repo.DeleteCondominium(context, id); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Warn("condominium_deleted", slog.String("condominium_id", id))
	return nil
}

// RestoreCondominium reverses a soft deletion.
func (service *Service) RestoreCondominium(context context.Context, id string) error {
	if err := service.repo.RestoreCondominium(context, id); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("condominium_restored", slog.String("condominium_id", id))
	return nil
}

// # Membership

func (service *Service) AddMember(context context.Context, condominiumID, userID string) error {
	// Adding a member to a destroyed or inactive condominium is rejected
	// the same way a scoped-token request would be.
	if _, err := service.GetCondominium(context, condominiumID, false); err != nil {
		return err
	}

	if err := service.repo.AddMember(context, condominiumID, userID); err != nil {
		return err
	}

	service.logger.Info("member_added",
		slog.String("condominium_id", condominiumID),
		slog.String("user_id", userID),
	)
	return nil
}

func (service *Service) RemoveMember(context context.Context, condominiumID, userID string) error {
	if err := service.repo.RemoveMember(context, condominiumID, userID); err != nil {
		return err
	}

	service.logger.Info("member_removed",
		slog.String("condominium_id", condominiumID),
		slog.String("user_id", userID),
	)
	return nil
}

func validateCondominium(condominium *Condominium) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, condominium.Name).MaxLen(FieldName, condominium.Name, 200)
	validator.Required(FieldAddress, condominium.Address).MaxLen(FieldAddress, condominium.Address, 300)
	validator.Required(FieldCity, condominium.City).MaxLen(FieldCity, condominium.City, 100)
	validator.Required(FieldCountry, condominium.Country).MaxLen(FieldCountry, condominium.Country, 100)

	if condominium.Email != nil {
		validator.Email(FieldEmail, *condominium.Email)
	}
	if condominium.Website != nil {
		validator.URL(FieldWebsite, *condominium.Website)
	}

	return validator.Err()
}
