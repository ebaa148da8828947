// Copyright (c) 2026 Veranda Systems. All rights reserved.

package building

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

// RegisterRoutes mounts the building endpoints. The router is expected to be
// nested under /condominiums/{condominiumID}.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listBuildings)
	router.Get("/{id}", handler.getBuilding)

	// Admin Only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createBuilding)
		adminRoute.Patch("/{id}", handler.updateBuilding)
		adminRoute.Delete("/{id}", handler.deleteBuilding)
	})
}

func (handler *Handler) listBuildings(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	condominiumID := requestutil.ID(request, "condominiumID")

	buildings, total, err := handler.service.ListBuildings(request.Context(), condominiumID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, buildings, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getBuilding(writer http.ResponseWriter, request *http.Request) {
	building, err := handler.service.GetBuilding(request.Context(), requestutil.ID(request, "id"), includeDeleted(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, building)
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

func (handler *Handler) createBuilding(writer http.ResponseWriter, request *http.Request) {
	var input Building
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.CondominiumID = requestutil.ID(request, "condominiumID")

	if err := handler.service.CreateBuilding(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateBuilding(writer http.ResponseWriter, request *http.Request) {
	var input Building
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateBuilding(request.Context(), requestutil.ID(request, "id"), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deleteBuilding(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteBuilding(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
