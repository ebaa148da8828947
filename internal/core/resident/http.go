// Copyright (c) 2026 Veranda Systems. All rights reserved.

package resident

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

// RegisterRoutes mounts the resident endpoints. The router is expected to be
// nested under /condominiums/{condominiumID}.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listResidents)
	router.Get("/{id}", handler.getResident)

	// Admin Only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createResident)
		adminRoute.Patch("/{id}", handler.updateResident)
		adminRoute.Post("/{id}/move-out", handler.moveOut)
		adminRoute.Delete("/{id}", handler.deleteResident)
	})
}

func (handler *Handler) listResidents(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	condominiumID := requestutil.ID(request, "condominiumID")

	filter := Filter{
		Query:        request.URL.Query().Get("q"),
		ResidentType: request.URL.Query().Get("type"),
		ActiveOnly:   request.URL.Query().Get("active") == "true",
	}

	residents, total, err := handler.service.ListResidents(request.Context(), condominiumID, filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, residents, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getResident(writer http.ResponseWriter, request *http.Request) {
	resident, err := handler.service.GetResident(request.Context(), requestutil.ID(request, "id"), includeDeleted(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, resident)
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

func (handler *Handler) createResident(writer http.ResponseWriter, request *http.Request) {
	var input Resident
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.CondominiumID = requestutil.ID(request, "condominiumID")

	if err := handler.service.CreateResident(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateResident(writer http.ResponseWriter, request *http.Request) {
	var input Resident
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateResident(request.Context(), requestutil.ID(request, "id"), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) moveOut(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.MoveOut(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) deleteResident(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteResident(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
