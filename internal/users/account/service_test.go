// Copyright (c) 2026 Veranda Systems. All rights reserved.

package account_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verandahq/veranda/internal/platform/apperr"
	"github.com/verandahq/veranda/internal/platform/cache"
	"github.com/verandahq/veranda/internal/platform/sec"
	"github.com/verandahq/veranda/internal/users/account"
	"github.com/verandahq/veranda/internal/users/auth"
)

// # Test Doubles

// fakeAccountRepository is an in-memory [account.AccountRepository] that
// counts reads, so cache hit behavior is observable.
type fakeAccountRepository struct {
	byID  map[string]*auth.User
	reads int
}

func newFakeAccountRepository(users ...*auth.User) *fakeAccountRepository {
	repository := &fakeAccountRepository{byID: map[string]*auth.User{}}
	for _, user := range users {
		repository.byID[user.ID] = user
	}
	return repository
}

func (repository *fakeAccountRepository) List(_ context.Context, f account.Filter, limit, offset int) ([]*auth.User, int, error) {
	var users []*auth.User
	for _, user := range repository.byID {
		if user.DeletedAt != nil && !f.IncludeDeleted {
			continue
		}
		users = append(users, user)
	}
	return users, len(users), nil
}

func (repository *fakeAccountRepository) FindByID(_ context.Context, id string, includeDeleted bool) (*auth.User, error) {
	repository.reads++
	user, ok := repository.byID[id]
	if !ok || (user.DeletedAt != nil && !includeDeleted) {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (repository *fakeAccountRepository) Update(_ context.Context, user *auth.User) error {
	stored, ok := repository.byID[user.ID]
	if !ok || stored.DeletedAt != nil {
		return apperr.NotFound("User")
	}
	copied := *user
	repository.byID[user.ID] = &copied
	return nil
}

func (repository *fakeAccountRepository) SetRole(_ context.Context, id string, role sec.UserRole) error {
	user, ok := repository.byID[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Role = role
	return nil
}

func (repository *fakeAccountRepository) SetActive(_ context.Context, id string, active bool) error {
	user, ok := repository.byID[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsActive = active
	return nil
}

func (repository *fakeAccountRepository) SoftDelete(_ context.Context, id string) error {
	user, ok := repository.byID[id]
	if !ok || user.DeletedAt != nil {
		return apperr.NotFound("User")
	}
	now := time.Now()
	user.DeletedAt = &now
	return nil
}

func (repository *fakeAccountRepository) Restore(_ context.Context, id string) error {
	user, ok := repository.byID[id]
	if !ok || user.DeletedAt == nil {
		return apperr.NotFound("User")
	}
	user.DeletedAt = nil
	return nil
}

// fakeHasher mirrors the reversible scheme used across service tests.
type fakeHasher struct{}

func (fakeHasher) HashPassword(plain string) (string, error) { return "pw$" + plain, nil }
func (fakeHasher) CheckPassword(plain, hash string) bool     { return hash == "pw$"+plain }
func (fakeHasher) HashToken(token string) (string, error)    { return "tk$" + token, nil }
func (fakeHasher) CheckToken(token, hash string) bool        { return hash == "tk$"+token }

// # Fixtures

type serviceFixture struct {
	service    *account.Service
	repository *fakeAccountRepository
}

func newServiceFixture(t *testing.T, users ...*auth.User) *serviceFixture {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	logger := slog.New(slog.DiscardHandler)

	repository := newFakeAccountRepository(users...)
	service := account.NewService(repository, cache.New(client, logger), fakeHasher{}, logger)

	return &serviceFixture{service: service, repository: repository}
}

func member(id string, role sec.UserRole) *auth.User {
	return &auth.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "pw$original",
		FirstName:    "Ana",
		LastName:     "Vega",
		Role:         role,
		IsActive:     true,
	}
}

// # Role Assignment

/*
TestService_AssignRole exercises the strict hierarchy matrix: callers must
outrank the role being assigned, the target's current role never factors in,
and SUPER_ADMIN is only ever granted by another SUPER_ADMIN.
*/
func TestService_AssignRole(t *testing.T) {
	tests := []struct {
		name       string
		callerRole sec.UserRole
		targetRole sec.UserRole
		newRole    sec.UserRole
		wantCode   string
	}{
		{"admin_promotes_user_to_admin", sec.RoleAdmin, sec.RoleUser, sec.RoleAdmin, "FORBIDDEN"},
		{"admin_keeps_user_as_user", sec.RoleAdmin, sec.RoleUser, sec.RoleUser, ""},
		{"admin_cannot_grant_super_admin", sec.RoleAdmin, sec.RoleUser, sec.RoleSuperAdmin, "FORBIDDEN"},
		{"admin_demotes_admin_to_user", sec.RoleAdmin, sec.RoleAdmin, sec.RoleUser, ""},
		{"admin_cannot_reassign_admin_to_admin", sec.RoleAdmin, sec.RoleAdmin, sec.RoleAdmin, "FORBIDDEN"},
		{"admin_demotes_super_admin_to_user", sec.RoleAdmin, sec.RoleSuperAdmin, sec.RoleUser, ""},
		{"super_admin_promotes_to_admin", sec.RoleSuperAdmin, sec.RoleUser, sec.RoleAdmin, ""},
		{"super_admin_grants_super_admin", sec.RoleSuperAdmin, sec.RoleUser, sec.RoleSuperAdmin, ""},
		{"super_admin_demotes_admin", sec.RoleSuperAdmin, sec.RoleAdmin, sec.RoleUser, ""},
		{"user_cannot_assign_anything", sec.RoleUser, sec.RoleUser, sec.RoleUser, "FORBIDDEN"},
		{"unknown_role_is_rejected", sec.RoleSuperAdmin, sec.RoleUser, sec.UserRole("OWNER"), "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newServiceFixture(t, member("target", tt.targetRole))

			err := fixture.service.AssignRole(context.Background(), tt.callerRole, "target", tt.newRole)

			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.newRole, fixture.repository.byID["target"].Role)
				return
			}

			require.Error(t, err)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, tt.wantCode, appError.Code)
			assert.Equal(t, tt.targetRole, fixture.repository.byID["target"].Role, "role must not change on failure")
		})
	}
}

// # Reads & Cache

/*
TestService_GetUser verifies the cache-aside read path and the
administrative include-deleted bypass.
*/
func TestService_GetUser(t *testing.T) {
	t.Run("second_read_is_served_from_cache", func(t *testing.T) {
		fixture := newServiceFixture(t, member("u1", sec.RoleUser))

		_, err := fixture.service.GetUser(context.Background(), "u1", false)
		require.NoError(t, err)
		_, err = fixture.service.GetUser(context.Background(), "u1", false)
		require.NoError(t, err)

		assert.Equal(t, 1, fixture.repository.reads)
	})

	t.Run("include_deleted_bypasses_cache", func(t *testing.T) {
		fixture := newServiceFixture(t, member("u1", sec.RoleUser))

		_, err := fixture.service.GetUser(context.Background(), "u1", true)
		require.NoError(t, err)
		_, err = fixture.service.GetUser(context.Background(), "u1", true)
		require.NoError(t, err)

		// Both administrative reads hit the repository.
		assert.Equal(t, 2, fixture.repository.reads)
	})

	t.Run("deleted_user_is_hidden_without_bypass", func(t *testing.T) {
		fixture := newServiceFixture(t, member("u1", sec.RoleUser))
		require.NoError(t, fixture.service.DeleteUser(context.Background(), "u1"))

		_, err := fixture.service.GetUser(context.Background(), "u1", false)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

		found, err := fixture.service.GetUser(context.Background(), "u1", true)
		require.NoError(t, err)
		assert.NotNil(t, found.DeletedAt)
	})

	t.Run("update_invalidates_cached_entry", func(t *testing.T) {
		fixture := newServiceFixture(t, member("u1", sec.RoleUser))

		_, err := fixture.service.GetUser(context.Background(), "u1", false)
		require.NoError(t, err)

		newName := "Lucia"
		_, err = fixture.service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
			FirstName: &newName,
		})
		require.NoError(t, err)

		refreshed, err := fixture.service.GetUser(context.Background(), "u1", false)
		require.NoError(t, err)
		assert.Equal(t, "Lucia", refreshed.FirstName)
	})
}

// # Profile Updates

/*
TestService_UpdateProfile covers partial updates and password re-hashing.
*/
func TestService_UpdateProfile(t *testing.T) {
	t.Run("only_provided_fields_change", func(t *testing.T) {
		fixture := newServiceFixture(t, member("u1", sec.RoleUser))

		newLast := "Serrano"
		updated, err := fixture.service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
			LastName: &newLast,
		})
		require.NoError(t, err)

		assert.Equal(t, "Serrano", updated.LastName)
		assert.Equal(t, "Ana", updated.FirstName)
		assert.Equal(t, "u1@example.com", updated.Email)
	})

	t.Run("password_is_rehashed", func(t *testing.T) {
		fixture := newServiceFixture(t, member("u1", sec.RoleUser))

		newPassword := "hunter2hunter2"
		_, err := fixture.service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
			Password: &newPassword,
		})
		require.NoError(t, err)

		stored := fixture.repository.byID["u1"]
		assert.Equal(t, "pw$hunter2hunter2", stored.PasswordHash)
	})

	t.Run("short_password_is_rejected", func(t *testing.T) {
		fixture := newServiceFixture(t, member("u1", sec.RoleUser))

		short := "abc"
		_, err := fixture.service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
			Password: &short,
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

		assert.Equal(t, "pw$original", fixture.repository.byID["u1"].PasswordHash)
	})

	t.Run("invalid_email_is_rejected", func(t *testing.T) {
		fixture := newServiceFixture(t, member("u1", sec.RoleUser))

		bad := "not-an-email"
		_, err := fixture.service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
			Email: &bad,
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

// # Lifecycle

/*
TestService_DeleteRestore covers the soft-delete round trip.
*/
func TestService_DeleteRestore(t *testing.T) {
	fixture := newServiceFixture(t, member("u1", sec.RoleUser))

	require.NoError(t, fixture.service.DeleteUser(context.Background(), "u1"))

	// Deleting twice is NotFound: the live row no longer exists.
	err := fixture.service.DeleteUser(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	require.NoError(t, fixture.service.RestoreUser(context.Background(), "u1"))

	found, err := fixture.service.GetUser(context.Background(), "u1", false)
	require.NoError(t, err)
	assert.Nil(t, found.DeletedAt)
}
