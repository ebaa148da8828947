// Copyright (c) 2026 Veranda Systems. All rights reserved.

package unit

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

// RegisterRoutes mounts the unit endpoints. The router is expected to be
// nested under /buildings/{buildingID}.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listUnits)
	router.Get("/{id}", handler.getUnit)

	// Admin Only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createUnit)
		adminRoute.Patch("/{id}", handler.updateUnit)
		adminRoute.Put("/{id}/resident", handler.assignResident)
		adminRoute.Delete("/{id}", handler.deleteUnit)
	})
}

func (handler *Handler) listUnits(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	buildingID := requestutil.ID(request, "buildingID")

	units, total, err := handler.service.ListUnits(request.Context(), buildingID, paginationParams.Page, paginationParams.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, units, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getUnit(writer http.ResponseWriter, request *http.Request) {
	unit, err := handler.service.GetUnit(request.Context(), requestutil.ID(request, "id"), includeDeleted(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, unit)
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

func (handler *Handler) createUnit(writer http.ResponseWriter, request *http.Request) {
	var input Unit
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.BuildingID = requestutil.ID(request, "buildingID")

	if err := handler.service.CreateUnit(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateUnit(writer http.ResponseWriter, request *http.Request) {
	var input Unit
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateUnit(request.Context(), requestutil.ID(request, "id"), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

type assignResidentRequest struct {
	ResidentID *string `json:"resident_id"` // null vacates the unit
}

func (handler *Handler) assignResident(writer http.ResponseWriter, request *http.Request) {
	var input assignResidentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AssignResident(request.Context(), requestutil.ID(request, "id"), input.ResidentID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) deleteUnit(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteUnit(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
