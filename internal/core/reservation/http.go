// Copyright (c) 2026 Veranda Systems. All rights reserved.

package reservation

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

// RegisterRoutes mounts the reservation endpoints. The router is expected to
// be nested under /common-spaces/{commonSpaceID}.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listReservations)
	router.Get("/{id}", handler.getReservation)
	router.Post("/", handler.createReservation)
	router.Patch("/{id}", handler.updateReservation)
	router.Post("/{id}/cancel", handler.cancelReservation)

	// Admin Only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/{id}/confirm", handler.confirmReservation)
		adminRoute.Post("/{id}/complete", handler.completeReservation)
		adminRoute.Delete("/{id}", handler.deleteReservation)
	})
}

func (handler *Handler) listReservations(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	commonSpaceID := requestutil.ID(request, "commonSpaceID")

	filter := Filter{
		Status:     request.URL.Query().Get("status"),
		ResidentID: request.URL.Query().Get("resident_id"),
	}

	reservations, total, err := handler.service.ListReservations(request.Context(), commonSpaceID, filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reservations, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getReservation(writer http.ResponseWriter, request *http.Request) {
	reservation, err := handler.service.GetReservation(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reservation)
}

func (handler *Handler) createReservation(writer http.ResponseWriter, request *http.Request) {
	var input Reservation
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.CommonSpaceID = requestutil.ID(request, "commonSpaceID")

	if err := handler.service.CreateReservation(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateReservation(writer http.ResponseWriter, request *http.Request) {
	var input Reservation
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateReservation(request.Context(), requestutil.ID(request, "id"), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) confirmReservation(writer http.ResponseWriter, request *http.Request) {
	reservation, err := handler.service.ConfirmReservation(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reservation)
}

func (handler *Handler) cancelReservation(writer http.ResponseWriter, request *http.Request) {
	reservation, err := handler.service.CancelReservation(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reservation)
}

func (handler *Handler) completeReservation(writer http.ResponseWriter, request *http.Request) {
	reservation, err := handler.service.CompleteReservation(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reservation)
}

func (handler *Handler) deleteReservation(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteReservation(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
