// Copyright (c) 2026 Veranda Systems. All rights reserved.

package account

import (
	"context"
	"log/slog"

	"github.com/verandahq/veranda/internal/platform/apperr"
	"github.com/verandahq/veranda/internal/platform/cache"
	"github.com/verandahq/veranda/internal/platform/constants"
	"github.com/verandahq/veranda/internal/platform/sec"
	"github.com/verandahq/veranda/internal/platform/validate"
	"github.com/verandahq/veranda/internal/users/auth"
)

// cacheEntity prefixes all user cache keys.
const cacheEntity = "user"

// Service orchestrates user administration over the repository.
type Service struct {
	repo   AccountRepository
	cache  *cache.Cache
	hasher auth.Hasher
	logger *slog.Logger
}

// NewService constructs a new account [Service] with necessary dependencies.
func NewService(repo AccountRepository, cache *cache.Cache, hasher auth.Hasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		hasher: hasher,
		logger: logger,
	}
}

// UpdateProfileInput holds the self-service mutable profile fields.
// Nil pointers leave the current value untouched.
type UpdateProfileInput struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
}

func (service *Service) ListUsers(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

// GetUser reads through the cache; deleted rows are never cached because the
// administrative bypass must always observe the live row state.
func (service *Service) GetUser(ctx context.Context, id string, includeDeleted bool) (*auth.User, error) {
	if includeDeleted {
		return service.repo.FindByID(ctx, id, true)
	}

	return cache.GetOrSet(ctx, service.cache, cache.Key(cacheEntity, id), constants.CacheTTLEntity,
		func(ctx context.Context) (*auth.User, error) {
			return service.repo.FindByID(ctx, id, false)
		})
}

/*
UpdateProfile applies partial changes to a user's own profile.

Description: Only provided fields change. A new password is re-hashed before
persistence; the plain text never reaches the repository.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: Updated entity
  - error: Validation, Conflict, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.repo.FindByID(context, userID, false)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}

	if input.Email != nil {
		validator.Required(auth.FieldEmail, *input.Email).Email(auth.FieldEmail, *input.Email)
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		validator.Required(auth.FieldFirstName, *input.FirstName).MaxLen(auth.FieldFirstName, *input.FirstName, 100)
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		validator.Required(auth.FieldLastName, *input.LastName).MaxLen(auth.FieldLastName, *input.LastName, 100)
		user.LastName = *input.LastName
	}
	if input.Password != nil {
		validator.MinLen(auth.FieldPassword, *input.Password, 8)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Password != nil {
		hashed, err := service.hasher.HashPassword(*input.Password)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		user.PasswordHash = hashed
	}

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	service.cache.Invalidate(context, cache.Key(cacheEntity, userID))

	service.logger.Info("profile_updated", slog.String("user_id", userID))
	return user, nil
}

/*
AssignRole changes a user's role, enforcing the strict hierarchy.

Description: The caller must outrank the role being assigned; the target's
current role is not consulted, so an ADMIN may demote another ADMIN to USER.
SUPER_ADMIN can only be granted by another SUPER_ADMIN. Violations are
Forbidden, not Unauthorized: the caller is known, just not privileged enough.

Parameters:
  - context: context.Context
  - callerRole: sec.UserRole
  - targetUserID: string
  - newRole: sec.UserRole

Returns:
  - error: Validation, Forbidden, NotFound, or storage failures
*/
func (service *Service) AssignRole(context context.Context, callerRole sec.UserRole, targetUserID string, newRole sec.UserRole) error {
	if !newRole.Valid() {
		return apperr.ValidationError("Unknown role", apperr.FieldError{Field: "role", Message: "Must be one of USER, ADMIN, SUPER_ADMIN"})
	}

	if _, err := service.repo.FindByID(context, targetUserID, false); err != nil {
		return err
	}

	// The gate is the role being handed out, not the target's current one:
	// an ADMIN may demote another ADMIN to USER.
	if !sec.CanAssign(callerRole, newRole) {
		return apperr.Forbidden("Insufficient permissions to assign this role")
	}

	if err := service.repo.SetRole(context, targetUserID, newRole); err != nil {
		return err
	}

	service.cache.Invalidate(context, cache.Key(cacheEntity, targetUserID))

	service.logger.Info("role_assigned",
		slog.String("user_id", targetUserID),
		slog.String("role", string(newRole)),
	)
	return nil
}

// SetActive toggles the account flag checked before every login.
func (service *Service) SetActive(context context.Context, userID string, active bool) error {
	if err := service.repo.SetActive(context, userID, active); err != nil {
		return err
	}

	service.cache.Invalidate(context, cache.Key(cacheEntity, userID))

	service.logger.Info("user_active_changed",
		slog.String("user_id", userID),
		slog.Bool("active", active),
	)
	return nil
}

// DeleteUser soft-deletes the account. The row survives for auditability but
// disappears from every non-administrative read path.
func (service *Service) DeleteUser(context context.Context, userID string) error {
	if err := service.repo.SoftDelete(context, userID); err != nil {
		return err
	}

	service.cache.Invalidate(context, cache.Key(cacheEntity, userID))

	service.logger.Warn("user_deleted", slog.String("user_id", userID))
	return nil
}

// RestoreUser reverses a soft deletion.
func (service *Service) RestoreUser(context context.Context, userID string) error {
	if err := service.repo.Restore(context, userID); err != nil {
		return err
	}

	service.logger.Info("user_restored", slog.String("user_id", userID))
	return nil
}
