// Copyright (c) 2026 Veranda Systems. All rights reserved.

package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verandahq/veranda/internal/core/condominium"
	"github.com/verandahq/veranda/internal/platform/apperr"
	"github.com/verandahq/veranda/internal/platform/sec"
	"github.com/verandahq/veranda/internal/users/auth"
)

// # Test Doubles

// fakeUserStore is an in-memory [auth.UserStore].
type fakeUserStore struct {
	byID    map[string]*auth.User
	failure error // when set, every call fails with this error
}

func newFakeUserStore(users ...*auth.User) *fakeUserStore {
	store := &fakeUserStore{byID: map[string]*auth.User{}}
	for _, user := range users {
		store.byID[user.ID] = user
	}
	return store
}

func (store *fakeUserStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	if store.failure != nil {
		return nil, store.failure
	}
	user, ok := store.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (store *fakeUserStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if store.failure != nil {
		return nil, store.failure
	}
	for _, user := range store.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (store *fakeUserStore) Create(_ context.Context, user *auth.User) error {
	if store.failure != nil {
		return store.failure
	}
	store.byID[user.ID] = user
	return nil
}

func (store *fakeUserStore) SetRefreshTokenHash(_ context.Context, userID string, hash *string) error {
	if store.failure != nil {
		return store.failure
	}
	user, ok := store.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.RefreshTokenHash = hash
	return nil
}

// fakeMembershipStore is an in-memory [auth.MembershipStore].
type fakeMembershipStore struct {
	condominiums map[string]*condominium.Condominium
	members      map[string][]string // userID -> condominium IDs
}

func newFakeMembershipStore() *fakeMembershipStore {
	return &fakeMembershipStore{
		condominiums: map[string]*condominium.Condominium{},
		members:      map[string][]string{},
	}
}

func (store *fakeMembershipStore) addCondominium(id, name string) {
	store.condominiums[id] = &condominium.Condominium{ID: id, Name: name, IsActive: true}
}

func (store *fakeMembershipStore) addMember(userID, condominiumID string) {
	store.members[userID] = append(store.members[userID], condominiumID)
}

func (store *fakeMembershipStore) ListActive(_ context.Context) ([]*condominium.Condominium, error) {
	var all []*condominium.Condominium
	for _, c := range store.condominiums {
		all = append(all, c)
	}
	return all, nil
}

func (store *fakeMembershipStore) ListForUser(_ context.Context, userID string) ([]*condominium.Condominium, error) {
	var result []*condominium.Condominium
	for _, id := range store.members[userID] {
		if c, ok := store.condominiums[id]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

func (store *fakeMembershipStore) IsMember(_ context.Context, userID, condominiumID string) (bool, error) {
	for _, id := range store.members[userID] {
		if id == condominiumID {
			return true, nil
		}
	}
	return false, nil
}

func (store *fakeMembershipStore) Exists(_ context.Context, condominiumID string) (bool, error) {
	_, ok := store.condominiums[condominiumID]
	return ok, nil
}

// fakeTokenProvider mints deterministic, unique tokens and records the
// condominium claim of the most recent pair.
type fakeTokenProvider struct {
	sequence          int
	lastCondominiumID string
}

func (provider *fakeTokenProvider) GenerateAccessToken(userID, _, _, condominiumID string) (string, error) {
	provider.sequence++
	provider.lastCondominiumID = condominiumID
	return fmt.Sprintf("access.%s.%s.%d", userID, condominiumID, provider.sequence), nil
}

func (provider *fakeTokenProvider) GenerateRefreshToken(userID, _, _, condominiumID string) (string, error) {
	provider.sequence++
	return fmt.Sprintf("refresh.%s.%s.%d", userID, condominiumID, provider.sequence), nil
}

// spyHasher performs trivial reversible hashing and counts comparisons, so
// tests can assert that no password work happens for inactive accounts.
type spyHasher struct {
	passwordChecks int
	tokenChecks    int
}

func (hasher *spyHasher) HashPassword(plain string) (string, error) { return "pw$" + plain, nil }
func (hasher *spyHasher) CheckPassword(plain, existingHash string) bool {
	hasher.passwordChecks++
	return existingHash == "pw$"+plain
}
func (hasher *spyHasher) HashToken(token string) (string, error) { return "tk$" + token, nil }
func (hasher *spyHasher) CheckToken(token, existingHash string) bool {
	hasher.tokenChecks++
	return existingHash == "tk$"+token
}

// recordingMailer captures welcome-mail publications.
type recordingMailer struct {
	recipients []string
	failure    error
}

func (mailer *recordingMailer) PublishWelcome(_ context.Context, recipient, _ string) error {
	if mailer.failure != nil {
		return mailer.failure
	}
	mailer.recipients = append(mailer.recipients, recipient)
	return nil
}

// # Fixtures

type serviceFixture struct {
	service     *auth.Service
	users       *fakeUserStore
	memberships *fakeMembershipStore
	tokens      *fakeTokenProvider
	hasher      *spyHasher
	mailer      *recordingMailer
}

func newServiceFixture(users ...*auth.User) *serviceFixture {
	fixture := &serviceFixture{
		users:       newFakeUserStore(users...),
		memberships: newFakeMembershipStore(),
		tokens:      &fakeTokenProvider{},
		hasher:      &spyHasher{},
		mailer:      &recordingMailer{},
	}
	fixture.service = auth.NewService(
		fixture.users,
		fixture.memberships,
		fixture.tokens,
		fixture.hasher,
		fixture.mailer,
		slog.New(slog.DiscardHandler),
	)
	return fixture
}

func activeUser(id, email, password string) *auth.User {
	return &auth.User{
		ID:           id,
		Email:        email,
		PasswordHash: "pw$" + password,
		FirstName:    "Ana",
		LastName:     "Vega",
		Role:         sec.RoleUser,
		IsActive:     true,
	}
}

// # Registration

/*
TestService_Register covers enrollment, duplicate detection, and the
store-outage edge case.
*/
func TestService_Register(t *testing.T) {
	t.Run("creates_user_with_session", func(t *testing.T) {
		fixture := newServiceFixture()

		result, err := fixture.service.Register(context.Background(), auth.RegisterInput{
			Email:     "ana@example.com",
			Password:  "correct-horse",
			FirstName: "Ana",
			LastName:  "Vega",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, result.User.ID)
		assert.Equal(t, sec.RoleUser, result.User.Role)
		assert.True(t, result.User.IsActive)
		assert.Equal(t, "pw$correct-horse", result.User.PasswordHash)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)

		// The refresh hash is installed on the stored row.
		stored := fixture.users.byID[result.User.ID]
		require.NotNil(t, stored.RefreshTokenHash)
		assert.Equal(t, "tk$"+result.RefreshToken, *stored.RefreshTokenHash)

		// Welcome mail was enqueued.
		assert.Equal(t, []string{"ana@example.com"}, fixture.mailer.recipients)
	})

	t.Run("duplicate_email_conflicts", func(t *testing.T) {
		fixture := newServiceFixture(activeUser("u1", "ana@example.com", "pw"))

		_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
			Email:    "ana@example.com",
			Password: "whatever",
		})
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "CONFLICT", appError.Code)
	})

	t.Run("store_outage_is_not_a_conflict", func(t *testing.T) {
		fixture := newServiceFixture()
		fixture.users.failure = errors.New("connection refused")

		_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
			Email:    "ana@example.com",
			Password: "whatever",
		})
		require.Error(t, err)
		assert.Nil(t, apperr.As(err))
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("mail_outage_does_not_fail_registration", func(t *testing.T) {
		fixture := newServiceFixture()
		fixture.mailer.failure = errors.New("broker down")

		_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
			Email:    "ana@example.com",
			Password: "correct-horse",
		})
		assert.NoError(t, err)
	})
}

// # Login

/*
TestService_Login covers credential verification order, membership loading,
and the uniform Unauthorized responses.
*/
func TestService_Login(t *testing.T) {
	t.Run("success_returns_memberships_and_pair", func(t *testing.T) {
		fixture := newServiceFixture(activeUser("u1", "ana@example.com", "correct-horse"))
		fixture.memberships.addCondominium("c1", "Mirador")
		fixture.memberships.addCondominium("c2", "Alameda")
		fixture.memberships.addMember("u1", "c1")

		result, err := fixture.service.Login(context.Background(), "ana@example.com", "correct-horse")
		require.NoError(t, err)

		require.Len(t, result.Condominiums, 1)
		assert.Equal(t, "c1", result.Condominiums[0].ID)
		assert.NotEmpty(t, result.AccessToken)

		// The pair is unscoped until select-condominium.
		assert.Empty(t, fixture.tokens.lastCondominiumID)

		// The stored hash matches the fresh refresh token.
		stored := fixture.users.byID["u1"]
		require.NotNil(t, stored.RefreshTokenHash)
		assert.Equal(t, "tk$"+result.RefreshToken, *stored.RefreshTokenHash)
	})

	t.Run("super_admin_sees_all_condominiums", func(t *testing.T) {
		admin := activeUser("u1", "root@example.com", "correct-horse")
		admin.Role = sec.RoleSuperAdmin
		fixture := newServiceFixture(admin)
		fixture.memberships.addCondominium("c1", "Mirador")
		fixture.memberships.addCondominium("c2", "Alameda")

		result, err := fixture.service.Login(context.Background(), "root@example.com", "correct-horse")
		require.NoError(t, err)
		assert.Len(t, result.Condominiums, 2)
	})

	t.Run("unknown_email_is_unauthorized", func(t *testing.T) {
		fixture := newServiceFixture()

		_, err := fixture.service.Login(context.Background(), "ghost@example.com", "pw")
		requireUnauthorized(t, err, "Invalid credentials")
	})

	t.Run("wrong_password_is_unauthorized", func(t *testing.T) {
		fixture := newServiceFixture(activeUser("u1", "ana@example.com", "correct-horse"))

		_, err := fixture.service.Login(context.Background(), "ana@example.com", "wrong")
		requireUnauthorized(t, err, "Invalid credentials")
	})

	t.Run("inactive_account_skips_password_work", func(t *testing.T) {
		user := activeUser("u1", "ana@example.com", "correct-horse")
		user.IsActive = false
		fixture := newServiceFixture(user)

		_, err := fixture.service.Login(context.Background(), "ana@example.com", "correct-horse")
		requireUnauthorized(t, err, "User is inactive")

		// The expensive comparison must never run for disabled accounts.
		assert.Zero(t, fixture.hasher.passwordChecks)
	})
}

// # Condominium Selection

/*
TestService_SelectCondominium covers membership gating and claim scoping.
*/
func TestService_SelectCondominium(t *testing.T) {
	t.Run("member_receives_scoped_pair", func(t *testing.T) {
		fixture := newServiceFixture(activeUser("u1", "ana@example.com", "pw"))
		fixture.memberships.addCondominium("c1", "Mirador")
		fixture.memberships.addMember("u1", "c1")

		pair, err := fixture.service.SelectCondominium(context.Background(), "u1", "c1")
		require.NoError(t, err)

		assert.NotEmpty(t, pair.AccessToken)
		assert.Equal(t, "c1", fixture.tokens.lastCondominiumID)
	})

	t.Run("non_member_is_unauthorized", func(t *testing.T) {
		fixture := newServiceFixture(activeUser("u1", "ana@example.com", "pw"))
		fixture.memberships.addCondominium("c1", "Mirador")

		_, err := fixture.service.SelectCondominium(context.Background(), "u1", "c1")
		requireUnauthorized(t, err, "User does not have access to this condominium")
	})

	t.Run("super_admin_needs_no_membership", func(t *testing.T) {
		admin := activeUser("u1", "root@example.com", "pw")
		admin.Role = sec.RoleSuperAdmin
		fixture := newServiceFixture(admin)
		fixture.memberships.addCondominium("c1", "Mirador")

		_, err := fixture.service.SelectCondominium(context.Background(), "u1", "c1")
		assert.NoError(t, err)
	})

	t.Run("unknown_user_is_unauthorized", func(t *testing.T) {
		fixture := newServiceFixture()

		_, err := fixture.service.SelectCondominium(context.Background(), "ghost", "c1")
		requireUnauthorized(t, err, "User not found")
	})
}

// # Refresh & Logout

/*
TestService_Refresh covers single-slot rotation: exactly one refresh token is
valid at any time, and a superseded or cleared token always fails.
*/
func TestService_Refresh(t *testing.T) {
	login := func(t *testing.T, fixture *serviceFixture) string {
		t.Helper()
		result, err := fixture.service.Login(context.Background(), "ana@example.com", "pw")
		require.NoError(t, err)
		return result.RefreshToken
	}

	t.Run("rotation_invalidates_previous_token", func(t *testing.T) {
		fixture := newServiceFixture(activeUser("u1", "ana@example.com", "pw"))
		firstToken := login(t, fixture)

		pair, err := fixture.service.Refresh(context.Background(), "u1", firstToken)
		require.NoError(t, err)
		assert.NotEqual(t, firstToken, pair.RefreshToken)

		// Replaying the superseded token must fail.
		_, err = fixture.service.Refresh(context.Background(), "u1", firstToken)
		requireUnauthorized(t, err, "Invalid refresh token")

		// The freshly minted one keeps working.
		_, err = fixture.service.Refresh(context.Background(), "u1", pair.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("refreshed_pair_is_unscoped", func(t *testing.T) {
		fixture := newServiceFixture(activeUser("u1", "ana@example.com", "pw"))
		fixture.memberships.addCondominium("c1", "Mirador")
		fixture.memberships.addMember("u1", "c1")
		login(t, fixture)

		scoped, err := fixture.service.SelectCondominium(context.Background(), "u1", "c1")
		require.NoError(t, err)
		assert.Equal(t, "c1", fixture.tokens.lastCondominiumID)

		_, err = fixture.service.Refresh(context.Background(), "u1", scoped.RefreshToken)
		require.NoError(t, err)

		// The tenant claim is dropped on refresh; the client re-selects.
		assert.Empty(t, fixture.tokens.lastCondominiumID)
	})

	t.Run("empty_slot_is_unauthorized", func(t *testing.T) {
		fixture := newServiceFixture(activeUser("u1", "ana@example.com", "pw"))

		_, err := fixture.service.Refresh(context.Background(), "u1", "refresh.u1..1")
		requireUnauthorized(t, err, "Invalid refresh token")
	})

	t.Run("unknown_user_is_unauthorized", func(t *testing.T) {
		fixture := newServiceFixture()

		_, err := fixture.service.Refresh(context.Background(), "ghost", "whatever")
		requireUnauthorized(t, err, "Invalid refresh token")
	})

	t.Run("logout_then_refresh_fails", func(t *testing.T) {
		fixture := newServiceFixture(activeUser("u1", "ana@example.com", "pw"))
		token := login(t, fixture)

		require.NoError(t, fixture.service.Logout(context.Background(), "u1"))
		assert.Nil(t, fixture.users.byID["u1"].RefreshTokenHash)

		_, err := fixture.service.Refresh(context.Background(), "u1", token)
		requireUnauthorized(t, err, "Invalid refresh token")
	})

	t.Run("logout_is_idempotent", func(t *testing.T) {
		fixture := newServiceFixture(activeUser("u1", "ana@example.com", "pw"))

		assert.NoError(t, fixture.service.Logout(context.Background(), "u1"))
		assert.NoError(t, fixture.service.Logout(context.Background(), "u1"))
	})
}

// # Serialization

/*
TestUser_JSONScrubsSecrets verifies that secret material never leaks into
API payloads.
*/
func TestUser_JSONScrubsSecrets(t *testing.T) {
	hash := "tk$secret"
	user := activeUser("u1", "ana@example.com", "pw")
	user.RefreshTokenHash = &hash

	payload, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(payload), "pw$")
	assert.NotContains(t, string(payload), "tk$secret")
	assert.NotContains(t, string(payload), "password")
	assert.NotContains(t, string(payload), "refresh_token_hash")
}

func requireUnauthorized(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
	assert.Equal(t, message, appError.Message)
}
