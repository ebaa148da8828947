// Copyright (c) 2026 Veranda Systems. All rights reserved.

package commonspace

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

// RegisterRoutes mounts the common space endpoints. The router is expected to
// be nested under /condominiums/{condominiumID}.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listCommonSpaces)
	router.Get("/{id}", handler.getCommonSpace)

	// Admin Only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createCommonSpace)
		adminRoute.Patch("/{id}", handler.updateCommonSpace)
		adminRoute.Delete("/{id}", handler.deleteCommonSpace)
	})
}

func (handler *Handler) listCommonSpaces(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	condominiumID := requestutil.ID(request, "condominiumID")

	spaces, total, err := handler.service.ListCommonSpaces(request.Context(), condominiumID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, spaces, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getCommonSpace(writer http.ResponseWriter, request *http.Request) {
	space, err := handler.service.GetCommonSpace(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, space)
}

func (handler *Handler) createCommonSpace(writer http.ResponseWriter, request *http.Request) {
	var input CommonSpace
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.CondominiumID = requestutil.ID(request, "condominiumID")

	if err := handler.service.CreateCommonSpace(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateCommonSpace(writer http.ResponseWriter, request *http.Request) {
	var input CommonSpace
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateCommonSpace(request.Context(), requestutil.ID(request, "id"), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deleteCommonSpace(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteCommonSpace(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
