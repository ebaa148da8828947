// Copyright (c) 2026 Veranda Systems. All rights reserved.

package payment_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verandahq/veranda/internal/core/payment"
	"github.com/verandahq/veranda/internal/core/resident"
	"github.com/verandahq/veranda/internal/platform/apperr"
	"github.com/verandahq/veranda/internal/platform/cache"
	"github.com/verandahq/veranda/pkg/pointer"
)

const (
	unitID     = "0d9e4a5b-1c2d-4e3f-9a8b-7c6d5e4f3a2b"
	residentID = "b7e2a1c4-5d6e-4f70-8a91-234567890abc"
)

// fakeRepository is an in-memory [payment.Repository].
type fakeRepository struct {
	byID map[string]*payment.Payment
}

func newFakeRepository(payments ...*payment.Payment) *fakeRepository {
	repository := &fakeRepository{byID: map[string]*payment.Payment{}}
	for _, p := range payments {
		repository.byID[p.ID] = p
	}
	return repository
}

func (repository *fakeRepository) ListPayments(_ context.Context, filter payment.Filter, limit, offset int) ([]*payment.Payment, int, error) {
	var payments []*payment.Payment
	for _, p := range repository.byID {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.UnitID != "" && p.UnitID != filter.UnitID {
			continue
		}
		payments = append(payments, p)
	}
	return payments, len(payments), nil
}

func (repository *fakeRepository) GetPayment(_ context.Context, id string) (*payment.Payment, error) {
	p, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("Payment")
	}
	copied := *p
	return &copied, nil
}

func (repository *fakeRepository) CreatePayment(_ context.Context, p *payment.Payment) error {
	repository.byID[p.ID] = p
	return nil
}

func (repository *fakeRepository) MarkPaid(_ context.Context, id, method string, paidAt time.Time) error {
	p, ok := repository.byID[id]
	if !ok {
		return apperr.NotFound("Payment")
	}
	p.Status = payment.StatusPaid
	p.Method = &method
	p.PaidAt = &paidAt
	return nil
}

func (repository *fakeRepository) SetStatus(_ context.Context, id, status string) error {
	p, ok := repository.byID[id]
	if !ok {
		return apperr.NotFound("Payment")
	}
	p.Status = status
	return nil
}

func (repository *fakeRepository) DeletePayment(_ context.Context, id string) error {
	if _, ok := repository.byID[id]; !ok {
		return apperr.NotFound("Payment")
	}
	delete(repository.byID, id)
	return nil
}

// fakeExpenseRepository is an in-memory [payment.ExpenseRepository].
type fakeExpenseRepository struct {
	byID map[string]*payment.CommonExpense
}

func (repository *fakeExpenseRepository) ListCommonExpenses(_ context.Context, condominiumID string, limit, offset int) ([]*payment.CommonExpense, int, error) {
	var expenses []*payment.CommonExpense
	for _, e := range repository.byID {
		if e.CondominiumID == condominiumID {
			expenses = append(expenses, e)
		}
	}
	return expenses, len(expenses), nil
}

func (repository *fakeExpenseRepository) GetCommonExpense(_ context.Context, id string) (*payment.CommonExpense, error) {
	e, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("Common expense")
	}
	return e, nil
}

func (repository *fakeExpenseRepository) CreateCommonExpense(_ context.Context, e *payment.CommonExpense) error {
	repository.byID[e.ID] = e
	return nil
}

func (repository *fakeExpenseRepository) UpdateCommonExpense(_ context.Context, e *payment.CommonExpense) error {
	if _, ok := repository.byID[e.ID]; !ok {
		return apperr.NotFound("Common expense")
	}
	repository.byID[e.ID] = e
	return nil
}

func (repository *fakeExpenseRepository) DeleteCommonExpense(_ context.Context, id string) error {
	if _, ok := repository.byID[id]; !ok {
		return apperr.NotFound("Common expense")
	}
	delete(repository.byID, id)
	return nil
}

type fakeResidents struct {
	byID map[string]*resident.Resident
}

func (residents *fakeResidents) GetResident(_ context.Context, id string, _ bool) (*resident.Resident, error) {
	r, ok := residents.byID[id]
	if !ok {
		return nil, apperr.NotFound("Resident")
	}
	return r, nil
}

// recordedReceipt captures one published payment receipt.
type recordedReceipt struct {
	recipient string
	amount    int64
	currency  string
}

type recordingMailer struct {
	sent    []recordedReceipt
	failure error
}

func (mailer *recordingMailer) PublishPaymentReceipt(_ context.Context, recipient, _ string, amount int64, currency, _ string, _ time.Time) error {
	if mailer.failure != nil {
		return mailer.failure
	}
	mailer.sent = append(mailer.sent, recordedReceipt{recipient: recipient, amount: amount, currency: currency})
	return nil
}

type fixture struct {
	service    *payment.Service
	repository *fakeRepository
	expenses   *fakeExpenseRepository
	mailer     *recordingMailer
}

func newFixture(t *testing.T, payments ...*payment.Payment) *fixture {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	logger := slog.New(slog.DiscardHandler)

	residents := &fakeResidents{byID: map[string]*resident.Resident{
		residentID: {
			ID:        residentID,
			FirstName: "Marta",
			LastName:  "Reyes",
			Email:     "marta@example.com",
		},
	}}

	repository := newFakeRepository(payments...)
	expenses := &fakeExpenseRepository{byID: map[string]*payment.CommonExpense{}}
	mailer := &recordingMailer{}
	return &fixture{
		service:    payment.NewService(repository, expenses, residents, cache.New(client, logger), mailer, logger),
		repository: repository,
		expenses:   expenses,
		mailer:     mailer,
	}
}

func samplePayment(id, status string) *payment.Payment {
	return &payment.Payment{
		ID:          id,
		Amount:      125_00,
		Currency:    "EUR",
		Status:      status,
		Description: "Common expenses 2026-08",
		DueDate:     time.Now().AddDate(0, 0, 14),
		UnitID:      unitID,
		ResidentID:  pointer.To(residentID),
	}
}

/*
TestService_MarkPaid covers the settlement path and its receipt email.
*/
func TestService_MarkPaid(t *testing.T) {
	t.Run("pending_payment_is_settled_with_receipt", func(t *testing.T) {
		f := newFixture(t, samplePayment("p1", payment.StatusPending))

		paid, err := f.service.MarkPaid(context.Background(), "p1", payment.MethodBankTransfer)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPaid, paid.Status)
		require.NotNil(t, paid.PaidAt)
		require.NotNil(t, paid.Method)
		assert.Equal(t, payment.MethodBankTransfer, *paid.Method)

		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, "marta@example.com", f.mailer.sent[0].recipient)
		assert.Equal(t, int64(125_00), f.mailer.sent[0].amount)
		assert.Equal(t, "EUR", f.mailer.sent[0].currency)
	})

	t.Run("overdue_payment_can_still_be_paid", func(t *testing.T) {
		f := newFixture(t, samplePayment("p1", payment.StatusOverdue))

		paid, err := f.service.MarkPaid(context.Background(), "p1", payment.MethodCash)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPaid, paid.Status)
	})

	t.Run("paid_payment_cannot_be_paid_twice", func(t *testing.T) {
		f := newFixture(t, samplePayment("p1", payment.StatusPaid))

		_, err := f.service.MarkPaid(context.Background(), "p1", payment.MethodCard)
		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("unknown_method_fails_validation", func(t *testing.T) {
		f := newFixture(t, samplePayment("p1", payment.StatusPending))

		_, err := f.service.MarkPaid(context.Background(), "p1", "BARTER")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("email_outage_does_not_fail_settlement", func(t *testing.T) {
		f := newFixture(t, samplePayment("p1", payment.StatusPending))
		f.mailer.failure = errors.New("broker unreachable")

		paid, err := f.service.MarkPaid(context.Background(), "p1", payment.MethodCard)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPaid, paid.Status)
	})

	t.Run("payment_without_resident_skips_receipt", func(t *testing.T) {
		anonymous := samplePayment("p1", payment.StatusPending)
		anonymous.ResidentID = nil
		f := newFixture(t, anonymous)

		_, err := f.service.MarkPaid(context.Background(), "p1", payment.MethodCash)
		require.NoError(t, err)
		assert.Empty(t, f.mailer.sent)
	})
}

/*
TestService_StatusChanges covers cancellation and the overdue flag.
*/
func TestService_StatusChanges(t *testing.T) {
	t.Run("pending_payment_can_be_cancelled", func(t *testing.T) {
		f := newFixture(t, samplePayment("p1", payment.StatusPending))

		cancelled, err := f.service.CancelPayment(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, payment.StatusCancelled, cancelled.Status)
	})

	t.Run("paid_payment_cannot_be_cancelled", func(t *testing.T) {
		f := newFixture(t, samplePayment("p1", payment.StatusPaid))

		_, err := f.service.CancelPayment(context.Background(), "p1")
		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
	})

	t.Run("pending_payment_can_go_overdue", func(t *testing.T) {
		f := newFixture(t, samplePayment("p1", payment.StatusPending))

		overdue, err := f.service.MarkOverdue(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, payment.StatusOverdue, overdue.Status)
	})

	t.Run("cancelled_payment_cannot_go_overdue", func(t *testing.T) {
		f := newFixture(t, samplePayment("p1", payment.StatusCancelled))

		_, err := f.service.MarkOverdue(context.Background(), "p1")
		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
	})
}

/*
TestService_CreatePayment covers creation defaults and validation.
*/
func TestService_CreatePayment(t *testing.T) {
	t.Run("creation_forces_pending_status", func(t *testing.T) {
		f := newFixture(t)

		input := samplePayment("", payment.StatusPaid)
		now := time.Now()
		input.PaidAt = &now
		require.NoError(t, f.service.CreatePayment(context.Background(), input))

		assert.NotEmpty(t, input.ID)
		assert.Equal(t, payment.StatusPending, input.Status)
		assert.Nil(t, input.PaidAt)
	})

	t.Run("non_positive_amount_is_rejected", func(t *testing.T) {
		f := newFixture(t)

		input := samplePayment("", "")
		input.Amount = 0
		err := f.service.CreatePayment(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("lowercase_currency_is_rejected", func(t *testing.T) {
		f := newFixture(t)

		input := samplePayment("", "")
		input.Currency = "eur"
		err := f.service.CreatePayment(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestService_CommonExpenses covers the expense CRUD validation.
*/
func TestService_CommonExpenses(t *testing.T) {
	sampleExpense := func() *payment.CommonExpense {
		return &payment.CommonExpense{
			Period:        "2026-08",
			TotalAmount:   4_800_00,
			Currency:      "EUR",
			Description:   "August maintenance and utilities",
			DueDate:       time.Now().AddDate(0, 1, 0),
			CondominiumID: "c1",
		}
	}

	t.Run("expense_round_trip", func(t *testing.T) {
		f := newFixture(t)

		expense := sampleExpense()
		require.NoError(t, f.service.CreateCommonExpense(context.Background(), expense))
		require.NotEmpty(t, expense.ID)

		fetched, err := f.service.GetCommonExpense(context.Background(), expense.ID)
		require.NoError(t, err)
		assert.Equal(t, "2026-08", fetched.Period)

		require.NoError(t, f.service.DeleteCommonExpense(context.Background(), expense.ID))
		_, err = f.service.GetCommonExpense(context.Background(), expense.ID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("malformed_period_is_rejected", func(t *testing.T) {
		f := newFixture(t)

		expense := sampleExpense()
		expense.Period = "08-2026"
		err := f.service.CreateCommonExpense(context.Background(), expense)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}
