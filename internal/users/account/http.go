// Copyright (c) 2026 Veranda Systems. All rights reserved.

/*
Package account provides the HTTP delivery layer for user administration.

It implements the RESTful interface for self-service profile management and
the administrative endpoints for listing, role assignment, activation, and
soft deletion.

# Security

All endpoints in this package require an active authentication session provided
by the RequireAuth middleware; administrative endpoints add RequireRole gates.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verandahq/veranda/internal/platform/middleware"
	requestutil "github.com/verandahq/veranda/internal/platform/request"
	"github.com/verandahq/veranda/internal/platform/respond"
	"github.com/verandahq/veranda/internal/platform/sec"
	"github.com/verandahq/veranda/internal/platform/validate"
	"github.com/verandahq/veranda/pkg/pagination"
)

// Handler implements the HTTP layer for user administration.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	// Self-service
	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)

	// Administration
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Get("/", handler.listUsers)
		adminRoute.Get("/{id}", handler.getUser)
		adminRoute.Patch("/{id}/role", handler.assignRole)
		adminRoute.Post("/{id}/activate", handler.setActive(true))
		adminRoute.Post("/{id}/deactivate", handler.setActive(false))
		adminRoute.Delete("/{id}", handler.deleteUser)

		adminRoute.With(middleware.RequireRole(sec.RoleSuperAdmin)).
			Post("/{id}/restore", handler.restoreUser)
	})

	return router
}

// # Self-Service Endpoints

/*
GET /api/v1/users/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetUser(request.Context(), userID, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/me.

Description: Applies partial profile changes. Only provided fields change;
a new password is re-hashed server-side.

Request:
  - Body: UpdateProfileInput (Email, FirstName, LastName, Password)

Response:
  - 200: User: Updated profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already in use
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateProfileInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// # Administration Endpoints

func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query:          request.URL.Query().Get("q"),
		Role:           sec.UserRole(request.URL.Query().Get("role")),
		IncludeDeleted: request.URL.Query().Get("include_deleted") == "true",
	}

	users, total, err := handler.accountService.ListUsers(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	includeDeleted := request.URL.Query().Get("include_deleted") == "true"

	user, err := handler.accountService.GetUser(request.Context(), requestutil.ID(request, "id"), includeDeleted)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

type assignRoleRequest struct {
	Role string `json:"role"`
}

/*
PATCH /api/v1/users/{id}/role.

Description: Changes the target user's role. The caller must outrank both
the target's current role and the requested role.

Request:
  - Body: assignRoleRequest (Role)

Response:
  - 204: No Content: Role changed
  - 403: ErrForbidden: Caller does not outrank the target or requested role
*/
func (handler *Handler) assignRole(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input assignRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err = handler.accountService.AssignRole(
		request.Context(),
		sec.UserRole(claims.Role),
		requestutil.ID(request, "id"),
		sec.UserRole(input.Role),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) setActive(active bool) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		err := handler.accountService.SetActive(request.Context(), requestutil.ID(request, "id"), active)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.NoContent(writer)
	}
}

func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	if err := handler.accountService.DeleteUser(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) restoreUser(writer http.ResponseWriter, request *http.Request) {
	if err := handler.accountService.RestoreUser(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
