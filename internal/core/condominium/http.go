// Copyright (c) 2026 Veranda Systems. All rights reserved.

package condominium

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verandahq/veranda/internal/platform/middleware"
	requestutil "github.com/verandahq/veranda/internal/platform/request"
	"github.com/verandahq/veranda/internal/platform/respond"
	"github.com/verandahq/veranda/internal/platform/sec"
	"github.com/verandahq/veranda/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Any authenticated user can browse condominiums they belong to.
	router.Get("/", handler.listCondominiums)
	router.Get("/{id}", handler.getCondominium)

	// Admin Only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/{id}/members/{userID}", handler.addMember)
		adminRoute.Delete("/{id}/members/{userID}", handler.removeMember)

		// Tenancy lifecycle is strictly platform-operator territory.
		adminRoute.Group(func(superRoute chi.Router) {
			superRoute.Use(middleware.RequireRole(sec.RoleSuperAdmin))

			superRoute.Post("/", handler.createCondominium)
			superRoute.Patch("/{id}", handler.updateCondominium)
			superRoute.Delete("/{id}", handler.deleteCondominium)
			superRoute.Post("/{id}/restore", handler.restoreCondominium)
		})
	})
}

func (handler *Handler) listCondominiums(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query:      request.URL.Query().Get("q"),
		ActiveOnly: request.URL.Query().Get("active") == "true",
	}

	condominiums, total, err := handler.service.ListCondominiums(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, condominiums, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getCondominium(writer http.ResponseWriter, request *http.Request) {
	condominium, err := handler.service.GetCondominium(request.Context(), requestutil.ID(request, "id"), includeDeleted(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, condominium)
}

// includeDeleted honours the administrative include_deleted flag; non-admin
// callers always see the live view.
func includeDeleted(request *http.Request) bool {
	if request.URL.Query().Get("include_deleted") != "true" {
		return false
	}

	claims := middleware.GetUser(request.Context())
	return claims != nil && sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin)
}

func (handler *Handler) restoreCondominium(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.RestoreCondominium(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) createCondominium(writer http.ResponseWriter, request *http.Request) {
	var input Condominium
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateCondominium(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateCondominium(writer http.ResponseWriter, request *http.Request) {
	var input Condominium
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateCondominium(request.Context(), requestutil.ID(request, "id"), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deleteCondominium(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteCondominium(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) addMember(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.AddMember(request.Context(), requestutil.ID(request, "id"), requestutil.ID(request, "userID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) removeMember(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.RemoveMember(request.Context(), requestutil.ID(request, "id"), requestutil.ID(request, "userID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
