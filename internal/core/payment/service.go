// Copyright (c) 2026 Veranda Systems. All rights reserved.

package payment

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/verandahq/veranda/internal/core/resident"
	"github.com/verandahq/veranda/internal/platform/apperr"
	"github.com/verandahq/veranda/internal/platform/cache"
	"github.com/verandahq/veranda/internal/platform/constants"
	"github.com/verandahq/veranda/internal/platform/validate"
	"github.com/verandahq/veranda/pkg/uuid"
)

const (
	cacheEntity  = "payment"
	cacheExpense = "commonexpense"
)

var (
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	periodRegex   = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

// ResidentDirectory resolves the resident a receipt is addressed to.
// *resident.Service satisfies it.
type ResidentDirectory interface {
	GetResident(ctx context.Context, id string, includeDeleted bool) (*resident.Resident, error)
}

// ReceiptMailer enqueues a payment receipt email. Publishing is best-effort:
// failures are logged, never surfaced to the caller.
type ReceiptMailer interface {
	PublishPaymentReceipt(ctx context.Context, recipient, firstName string, amount int64, currency, description string, paidAt time.Time) error
}

type Service struct {
	payments  Repository
	expenses  ExpenseRepository
	residents ResidentDirectory
	cache     *cache.Cache
	mailer    ReceiptMailer
	logger    *slog.Logger
}

func NewService(payments Repository, expenses ExpenseRepository, residents ResidentDirectory, cache *cache.Cache, mailer ReceiptMailer, logger *slog.Logger) *Service {
	return &Service{
		payments:  payments,
		expenses:  expenses,
		residents: residents,
		cache:     cache,
		mailer:    mailer,
		logger:    logger,
	}
}

func (service *Service) ListPayments(context context.Context, filter Filter, limit, offset int) ([]*Payment, int, error) {
	return service.payments.ListPayments(context, filter, limit, offset)
}

func (service *Service) GetPayment(ctx context.Context, id string) (*Payment, error) {
	return cache.GetOrSet(ctx, service.cache, cache.Key(cacheEntity, id), constants.CacheTTLEntity,
		func(ctx context.Context) (*Payment, error) {
			return service.payments.GetPayment(ctx, id)
		})
}

func (service *Service) CreatePayment(context context.Context, payment *Payment) error {
	if err := validatePayment(payment); err != nil {
		return err
	}

	payment.ID = uuid.New()
	payment.Status = StatusPending
	payment.PaidAt = nil

	if err := service.payments.CreatePayment(context, payment); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("payment_created",
		slog.String("payment_id", payment.ID),
		slog.String("unit_id", payment.UnitID),
		slog.Int64("amount", payment.Amount),
	)
	return nil
}

/*
MarkPaid settles an open payment. Only PENDING and OVERDUE payments can be
paid; paying one stamps the method and payment time and enqueues a receipt
email for the resident, when one is attached. The email is best-effort.
*/
func (service *Service) MarkPaid(context context.Context, id, method string) (*Payment, error) {
	validator := &validate.Validator{}
	validator.OneOf(FieldMethod, method, MethodBankTransfer, MethodCard, MethodCash, MethodOther)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	payment, err := service.payments.GetPayment(context, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != StatusPending && payment.Status != StatusOverdue {
		return nil, apperr.Unprocessable(fmt.Sprintf("Cannot pay a %s payment", payment.Status))
	}

	paidAt := time.Now().UTC()
	if err := service.payments.MarkPaid(context, id, method, paidAt); err != nil {
		return nil, err
	}
	payment.Status = StatusPaid
	payment.Method = &method
	payment.PaidAt = &paidAt

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("payment_paid",
		slog.String("payment_id", id),
		slog.String("method", method),
		slog.Int64("amount", payment.Amount),
	)

	service.sendReceipt(context, payment)
	return payment, nil
}

// CancelPayment voids an open payment. Paid payments cannot be cancelled.
func (service *Service) CancelPayment(context context.Context, id string) (*Payment, error) {
	payment, err := service.payments.GetPayment(context, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != StatusPending && payment.Status != StatusOverdue {
		return nil, apperr.Unprocessable(fmt.Sprintf("Cannot cancel a %s payment", payment.Status))
	}

	if err := service.payments.SetStatus(context, id, StatusCancelled); err != nil {
		return nil, err
	}
	payment.Status = StatusCancelled

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("payment_cancelled", slog.String("payment_id", id))
	return payment, nil
}

// MarkOverdue flags a pending payment whose due date has passed.
func (service *Service) MarkOverdue(context context.Context, id string) (*Payment, error) {
	payment, err := service.payments.GetPayment(context, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != StatusPending {
		return nil, apperr.Unprocessable(fmt.Sprintf("Cannot mark a %s payment overdue", payment.Status))
	}

	if err := service.payments.SetStatus(context, id, StatusOverdue); err != nil {
		return nil, err
	}
	payment.Status = StatusOverdue

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("payment_overdue", slog.String("payment_id", id))
	return payment, nil
}

func (service *Service) DeletePayment(context context.Context, id string) error {
	if err := service.payments.DeletePayment(context, id); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Warn("payment_deleted", slog.String("payment_id", id))
	return nil
}

func (service *Service) ListCommonExpenses(context context.Context, condominiumID string, limit, offset int) ([]*CommonExpense, int, error) {
	return service.expenses.ListCommonExpenses(context, condominiumID, limit, offset)
}

func (service *Service) GetCommonExpense(ctx context.Context, id string) (*CommonExpense, error) {
	return cache.GetOrSet(ctx, service.cache, cache.Key(cacheExpense, id), constants.CacheTTLEntity,
		func(ctx context.Context) (*CommonExpense, error) {
			return service.expenses.GetCommonExpense(ctx, id)
		})
}

func (service *Service) CreateCommonExpense(context context.Context, expense *CommonExpense) error {
	if err := validateCommonExpense(expense); err != nil {
		return err
	}

	expense.ID = uuid.New()

	if err := service.expenses.CreateCommonExpense(context, expense); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheExpense))

	service.logger.Info("common_expense_created",
		slog.String("common_expense_id", expense.ID),
		slog.String("condominium_id", expense.CondominiumID),
		slog.String("period", expense.Period),
	)
	return nil
}

func (service *Service) UpdateCommonExpense(context context.Context, id string, expense *CommonExpense) error {
	expense.ID = id
	if err := validateCommonExpense(expense); err != nil {
		return err
	}

	if err := service.expenses.UpdateCommonExpense(context, expense); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheExpense))

	service.logger.Info("common_expense_updated", slog.String("common_expense_id", id))
	return nil
}

func (service *Service) DeleteCommonExpense(context context.Context, id string) error {
	if err := service.expenses.DeleteCommonExpense(context, id); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheExpense))

	service.logger.Warn("common_expense_deleted", slog.String("common_expense_id", id))
	return nil
}

func (service *Service) sendReceipt(context context.Context, payment *Payment) {
	if service.mailer == nil || payment.ResidentID == nil || payment.PaidAt == nil {
		return
	}

	holder, err := service.residents.GetResident(context, *payment.ResidentID, false)
	if err != nil {
		service.logger.Warn("payment_receipt_email_skipped",
			slog.String("payment_id", payment.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	err = service.mailer.PublishPaymentReceipt(context,
		holder.Email, holder.FirstName,
		payment.Amount, payment.Currency, payment.Description, *payment.PaidAt,
	)
	if err != nil {
		service.logger.Warn("payment_receipt_email_failed",
			slog.String("payment_id", payment.ID),
			slog.String("error", err.Error()),
		)
	}
}

func validatePayment(payment *Payment) error {
	validator := &validate.Validator{}

	validator.Custom(FieldAmount, payment.Amount <= 0, "Must be a positive amount in minor units")
	validator.Custom(FieldCurrency, !currencyRegex.MatchString(payment.Currency), "Must be a 3-letter ISO currency code")
	validator.Required(FieldDescription, payment.Description).MaxLen(FieldDescription, payment.Description, 500)
	validator.Custom(FieldDueDate, payment.DueDate.IsZero(), "This field is required")
	validator.UUID(FieldUnitID, payment.UnitID)

	return validator.Err()
}

func validateCommonExpense(expense *CommonExpense) error {
	validator := &validate.Validator{}

	validator.Custom(FieldPeriod, !periodRegex.MatchString(expense.Period), "Must be a YYYY-MM period")
	validator.Custom(FieldTotalAmount, expense.TotalAmount <= 0, "Must be a positive amount in minor units")
	validator.Custom(FieldCurrency, !currencyRegex.MatchString(expense.Currency), "Must be a 3-letter ISO currency code")
	validator.Required(FieldDescription, expense.Description).MaxLen(FieldDescription, expense.Description, 500)
	validator.Custom(FieldDueDate, expense.DueDate.IsZero(), "This field is required")

	return validator.Err()
}
