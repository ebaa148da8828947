// Copyright (c) 2026 Veranda Systems. All rights reserved.

/*
Package auth provides the HTTP delivery layer for the session lifecycle.

It implements the gateway from account creation through condominium selection
to refresh-token rotation and logout.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Handles JWT orchestration and refresh token cookie injection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/verandahq/veranda/internal/platform/apperr"
	"github.com/verandahq/veranda/internal/platform/constants"
	"github.com/verandahq/veranda/internal/platform/middleware"
	requestutil "github.com/verandahq/veranda/internal/platform/request"
	"github.com/verandahq/veranda/internal/platform/respond"
	"github.com/verandahq/veranda/internal/platform/sec"
	"github.com/verandahq/veranda/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the session lifecycle entry points (Registration,
// Login, Condominium Selection, Refresh, Logout).
type Handler struct {
	authService *Service
	tokens      *sec.TokenService
}

// NewHandler constructs a new [Handler] with its service dependencies.
func NewHandler(service *Service, tokens *sec.TokenService) *Handler {
	return &Handler{authService: service, tokens: tokens}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register           : Creates a new account.
//   - POST /login              : Authenticates and returns a token pair.
//   - POST /refresh            : Rotates the refresh token.
//   - POST /select-condominium : Mints a condominium-scoped token pair.
//   - POST /logout             : Revokes the active session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/select-condominium", handler.selectCondominium)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type selectCondominiumRequest struct {
	CondominiumID string `json:"condominium_id"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, persists a new
user, and establishes a first session.

Request:
  - Body: registerRequest (Email, Password, FirstName, LastName)

Response:
  - 201: User profile plus access token; refresh token set as cookie
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		Required(FieldFirstName, input.FirstName).
		MaxLen(FieldFirstName, input.FirstName, 100).
		Required(FieldLastName, input.LastName).
		MaxLen(FieldLastName, input.LastName, 100)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, result.RefreshToken)

	respond.Created(writer, map[string]any{
		"user":         result.User,
		"access_token": result.AccessToken,
	})
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, lists the account's condominium
memberships, and injects a secure refresh token cookie into the response.
The returned pair carries no condominium claim; the client follows up with
select-condominium.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Access token, user profile, and selectable condominiums
  - 401: ErrUnauthorized: Invalid credentials or inactive account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, result.RefreshToken)

	respond.OK(writer, map[string]any{
		"access_token": result.AccessToken,
		"user":         result.User,
		"condominiums": result.Condominiums,
	})
}

/*
SelectCondominium scopes the session to a single condominium.

POST /api/v1/auth/select-condominium

Description: Verifies membership and rotates the session; the new token pair
carries the condominium claim.

Request:
  - Body: selectCondominiumRequest (CondominiumID)

Response:
  - 200: Condominium-scoped access token
  - 401: ErrUnauthorized: No access to the condominium
*/
func (handler *Handler) selectCondominium(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input selectCondominiumRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCondominiumID, input.CondominiumID).
		UUID(FieldCondominiumID, input.CondominiumID)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.SelectCondominium(request.Context(), userID, input.CondominiumID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, pair.RefreshToken)

	respond.OK(writer, handler.tokenResponse(pair))
}

/*
Refresh issues a new token pair using a valid refresh token.

POST /api/v1/auth/refresh

Description: Accepts the refresh token from the request body or, failing
that, the scoped cookie. The token signature is verified first; the service
then compares it against the stored hash and rotates the session.

Request:
  - Body: refreshRequest (RefreshToken, optional when the cookie is present)

Response:
  - 200: Rotated access token credentials
  - 401: ErrUnauthorized: Missing, expired, or superseded refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	presentedToken := handler.refreshTokenFrom(request)
	if presentedToken == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token"))
		return
	}

	// Signature and expiry checks happen before any database work.
	claims, err := handler.tokens.VerifyRefreshToken(presentedToken)
	if err != nil {
		respond.Error(writer, request, apperr.Unauthorized("Invalid refresh token"))
		return
	}

	pair, err := handler.authService.Refresh(request.Context(), claims.UserID, presentedToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, pair.RefreshToken)

	respond.OK(writer, handler.tokenResponse(pair))
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Clears the stored refresh-token hash and removes the security
cookie from the client. Idempotent.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearRefreshCookie(writer)

	respond.NoContent(writer)
}

// # Cookie & Response Helpers

func (handler *Handler) setRefreshCookie(writer http.ResponseWriter, refreshToken string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    refreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  time.Now().Add(handler.tokens.RefreshTTL()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (handler *Handler) clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (handler *Handler) tokenResponse(pair TokenPair) map[string]any {
	return map[string]any{
		"access_token": pair.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   int(handler.tokens.AccessTTL() / time.Second),
	}
}

// refreshTokenFrom prefers the JSON body over the scoped cookie so that
// non-browser clients never need cookie handling.
func (handler *Handler) refreshTokenFrom(request *http.Request) string {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err == nil && input.RefreshToken != "" {
		return input.RefreshToken
	}

	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}
