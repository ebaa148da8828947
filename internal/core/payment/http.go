// Copyright (c) 2026 Veranda Systems. All rights reserved.

package payment

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

// RegisterRoutes mounts the payment endpoints under /payments.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listPayments)
	router.Get("/{id}", handler.getPayment)

	// Admin Only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createPayment)
		adminRoute.Post("/{id}/pay", handler.markPaid)
		adminRoute.Post("/{id}/cancel", handler.cancelPayment)
		adminRoute.Post("/{id}/overdue", handler.markOverdue)
		adminRoute.Delete("/{id}", handler.deletePayment)
	})
}

// RegisterExpenseRoutes mounts the common expense endpoints. The router is
// expected to be nested under /condominiums/{condominiumID}.
func (handler *Handler) RegisterExpenseRoutes(router chi.Router) {
	router.Get("/", handler.listCommonExpenses)
	router.Get("/{id}", handler.getCommonExpense)

	// Admin Only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createCommonExpense)
		adminRoute.Patch("/{id}", handler.updateCommonExpense)
		adminRoute.Delete("/{id}", handler.deleteCommonExpense)
	})
}

func (handler *Handler) listPayments(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		UnitID:     request.URL.Query().Get("unit_id"),
		ResidentID: request.URL.Query().Get("resident_id"),
		Status:     request.URL.Query().Get("status"),
	}

	payments, total, err := handler.service.ListPayments(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, payments, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getPayment(writer http.ResponseWriter, request *http.Request) {
	payment, err := handler.service.GetPayment(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payment)
}

func (handler *Handler) createPayment(writer http.ResponseWriter, request *http.Request) {
	var input Payment
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreatePayment(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

type markPaidRequest struct {
	Method string `json:"method"`
}

func (handler *Handler) markPaid(writer http.ResponseWriter, request *http.Request) {
	var input markPaidRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	payment, err := handler.service.MarkPaid(request.Context(), requestutil.ID(request, "id"), input.Method)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payment)
}

func (handler *Handler) cancelPayment(writer http.ResponseWriter, request *http.Request) {
	payment, err := handler.service.CancelPayment(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payment)
}

func (handler *Handler) markOverdue(writer http.ResponseWriter, request *http.Request) {
	payment, err := handler.service.MarkOverdue(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payment)
}

func (handler *Handler) deletePayment(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeletePayment(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) listCommonExpenses(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	condominiumID := requestutil.ID(request, "condominiumID")

	expenses, total, err := handler.service.ListCommonExpenses(request.Context(), condominiumID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, expenses, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getCommonExpense(writer http.ResponseWriter, request *http.Request) {
	expense, err := handler.service.GetCommonExpense(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, expense)
}

func (handler *Handler) createCommonExpense(writer http.ResponseWriter, request *http.Request) {
	var input CommonExpense
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.CondominiumID = requestutil.ID(request, "condominiumID")

	if err := handler.service.CreateCommonExpense(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateCommonExpense(writer http.ResponseWriter, request *http.Request) {
	var input CommonExpense
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateCommonExpense(request.Context(), requestutil.ID(request, "id"), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deleteCommonExpense(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteCommonExpense(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
