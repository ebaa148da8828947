// Copyright (c) 2026 Veranda Systems. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/verandahq/veranda/internal/core/condominium"
	"github.com/verandahq/veranda/internal/platform/apperr"
	"github.com/verandahq/veranda/internal/platform/sec"
	"github.com/verandahq/veranda/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
//
// Access and refresh tokens are signed with distinct secrets and lifetimes;
// condominiumID may be empty, in which case no tenant claim is embedded.
type TokenProvider interface {
	GenerateAccessToken(userID, email, role, condominiumID string) (string, error)
	GenerateRefreshToken(userID, email, role, condominiumID string) (string, error)
}

// Hasher defines the adaptive-hash contract for passwords and refresh tokens.
// Injecting it lets tests run with a fast stub and assert that no comparison
// work is spent on inactive accounts.
type Hasher interface {
	HashPassword(plain string) (string, error)
	CheckPassword(plain, existingHash string) bool
	HashToken(token string) (string, error)
	CheckToken(token, existingHash string) bool
}

// bcryptHasher is the production [Hasher] backed by the sec package.
type bcryptHasher struct{}

func (bcryptHasher) HashPassword(plain string) (string, error) { return sec.HashPassword(plain) }
func (bcryptHasher) CheckPassword(plain, existingHash string) bool {
	return sec.CheckPasswordHash(plain, existingHash)
}
func (bcryptHasher) HashToken(token string) (string, error) { return sec.HashToken(token) }
func (bcryptHasher) CheckToken(token, existingHash string) bool {
	return sec.CheckTokenHash(token, existingHash)
}

// DefaultHasher returns the production bcrypt-backed [Hasher].
func DefaultHasher() Hasher { return bcryptHasher{} }

// WelcomeMailer enqueues the post-registration welcome message.
//
// Delivery is asynchronous and best-effort; registration never fails on a
// broker outage.
type WelcomeMailer interface {
	PublishWelcome(ctx context.Context, recipient, firstName string) error
}

// Service implements the authentication session lifecycle.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, rotation,
// or login logic must be reviewed by the security team.
type Service struct {
	users       UserStore
	memberships MembershipStore
	tokens      TokenProvider
	hasher      Hasher
	mailer      WelcomeMailer // optional; nil disables welcome mail
	logger      *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(users UserStore, memberships MembershipStore, tokens TokenProvider, hasher Hasher, mailer WelcomeMailer, logger *slog.Logger) *Service {
	return &Service{
		users:       users,
		memberships: memberships,
		tokens:      tokens,
		hasher:      hasher,
		mailer:      mailer,
		logger:      logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// RegisterResult is the transport-ready outcome of a successful registration.
type RegisterResult struct {
	User *User
	TokenPair
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new account. The password is hashed before
persistence, a token pair with NO condominium claim is minted, and the hash
of the refresh token is stored on the new row.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *RegisterResult: Created account plus token pair
  - error: Conflict (if an active account exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*RegisterResult, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	// A store outage must surface as-is, never be mistaken for "not found".
	_, err := service.users.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := service.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	// Registration never hands out privileged roles; those go through the
	// gated account-update path.
	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         sec.RoleUser,
		IsActive:     true,
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	pair, err := service.issueTokens(context, user, "")
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))

	if service.mailer != nil {
		if err := service.mailer.PublishWelcome(context, user.Email, user.FirstName); err != nil {
			service.logger.Warn("welcome_mail_enqueue_failed",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return &RegisterResult{User: user, TokenPair: pair}, nil
}

// # Authentication Flow

// LoginResult represents a successfully established user session.
type LoginResult struct {
	User         *User
	Condominiums []*condominium.Condominium
	TokenPair
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
loads the account's condominium memberships, and installs a rotated
refresh-token hash.

The inactive check runs BEFORE the password comparison so no bcrypt work is
wasted on disabled accounts. Both failure modes map to Unauthorized, so the
distinction never leaks through the status code.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *LoginResult: Account, memberships, and token pair
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, email, password string) (*LoginResult, error) {
	user, err := service.users.FindByEmail(context, email)
	if err != nil {
		if isNotFound(err) {
			// Generic message to prevent account enumeration.
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("User is inactive")
	}

	if !service.hasher.CheckPassword(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	condominiums, err := service.condominiumsFor(context, user)
	if err != nil {
		return nil, fmt.Errorf("auth_service_memberships_failed: %w", err)
	}

	// No condominium claim yet: the client picks one via SelectCondominium.
	pair, err := service.issueTokens(context, user, "")
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))

	return &LoginResult{User: user, Condominiums: condominiums, TokenPair: pair}, nil
}

// # Condominium Selection

/*
SelectCondominium mints a token pair scoped to a single condominium.

Description: Verifies the account's membership in the condominium, then
rotates the session: the new pair carries the condominium claim and the
previously issued refresh token becomes invalid.

Parameters:
  - context: context.Context
  - userID: string
  - condominiumID: string

Returns:
  - TokenPair: Condominium-scoped credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) SelectCondominium(context context.Context, userID, condominiumID string) (TokenPair, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		if isNotFound(err) {
			return TokenPair{}, apperr.Unauthorized("User not found")
		}
		return TokenPair{}, fmt.Errorf("auth_service_select_lookup_failed: %w", err)
	}

	allowed, err := service.hasAccess(context, user, condominiumID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth_service_select_access_failed: %w", err)
	}
	if !allowed {
		return TokenPair{}, apperr.Unauthorized("User does not have access to this condominium")
	}

	pair, err := service.issueTokens(context, user, condominiumID)
	if err != nil {
		return TokenPair{}, err
	}

	service.logger.Info("condominium_selected",
		slog.String("user_id", user.ID),
		slog.String("condominium_id", condominiumID),
	)

	return pair, nil
}

// # Session Management

/*
Refresh implements the refresh-token rotation mechanism.

Description: Compares the presented token against the single stored hash,
then mints and installs a fresh pair. The old refresh token is invalidated
immediately. A condominium claim present on the presented token is NOT
carried over; the client re-selects after a bare refresh.

Parameters:
  - context: context.Context
  - userID: string
  - presentedToken: string

Returns:
  - TokenPair: Rotated credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, userID, presentedToken string) (TokenPair, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		if isNotFound(err) {
			return TokenPair{}, apperr.Unauthorized("Invalid refresh token")
		}
		return TokenPair{}, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	// An empty slot means no session is active (fresh row or post-logout).
	if user.RefreshTokenHash == nil {
		return TokenPair{}, apperr.Unauthorized("Invalid refresh token")
	}

	if !service.hasher.CheckToken(presentedToken, *user.RefreshTokenHash) {
		return TokenPair{}, apperr.Unauthorized("Invalid refresh token")
	}

	pair, err := service.issueTokens(context, user, "")
	if err != nil {
		return TokenPair{}, err
	}

	service.logger.Info("session_refreshed", slog.String("user_id", user.ID))

	return pair, nil
}

/*
Logout clears the account's refresh-token slot.

Description: Idempotent. Clearing an already-empty slot succeeds; only a
store failure surfaces, and as an internal error rather than a business one.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: Persistence failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.users.SetRefreshTokenHash(context, userID, nil); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.logger.Info("user_logged_out", slog.String("user_id", userID))
	return nil
}

// # Internals

// issueTokens mints a pair, hashes the refresh token, and installs the hash.
//
// Both signatures must succeed before anything is persisted; a half-issued
// pair never reaches the store.
func (service *Service) issueTokens(context context.Context, user *User, condominiumID string) (TokenPair, error) {
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role), condominiumID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokens.GenerateRefreshToken(user.ID, user.Email, string(user.Role), condominiumID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Only the adaptive hash of the refresh token is persisted; a stolen
	// database row cannot be replayed without inverting bcrypt.
	tokenHash, err := service.hasher.HashToken(refreshToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth_service_token_hash_failed: %w", err)
	}

	if err := service.users.SetRefreshTokenHash(context, user.ID, &tokenHash); err != nil {
		return TokenPair{}, fmt.Errorf("auth_service_persist_hash_failed: %w", err)
	}

	user.RefreshTokenHash = &tokenHash

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// condominiumsFor loads the membership set; SUPER_ADMIN sees every condominium.
func (service *Service) condominiumsFor(context context.Context, user *User) ([]*condominium.Condominium, error) {
	if user.Role == sec.RoleSuperAdmin {
		return service.memberships.ListActive(context)
	}
	return service.memberships.ListForUser(context, user.ID)
}

// hasAccess checks the tenant-membership relation before a scoped token is minted.
func (service *Service) hasAccess(context context.Context, user *User, condominiumID string) (bool, error) {
	if user.Role == sec.RoleSuperAdmin {
		return service.memberships.Exists(context, condominiumID)
	}
	return service.memberships.IsMember(context, user.ID, condominiumID)
}

// isNotFound reports whether err is the store's NotFound classification.
func isNotFound(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.Code == "NOT_FOUND"
}
