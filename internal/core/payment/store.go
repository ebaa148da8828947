// Copyright (c) 2026 Veranda Systems. All rights reserved.

package payment

import (
	"context"
	"time"
)

/*
Repository defines the persistence operations for payments.

# Operations

  - ListPayments: page through live payments, filtered by unit, resident or
    status.
  - GetPayment: fetch a single live payment.
  - CreatePayment: insert a new payment row.
  - MarkPaid: stamp a payment as PAID with its method and payment time.
  - SetStatus: move a payment to a new status.
  - DeletePayment: soft delete a payment.
*/
type Repository interface {
	ListPayments(ctx context.Context, filter Filter, limit, offset int) ([]*Payment, int, error)
	GetPayment(ctx context.Context, id string) (*Payment, error)
	CreatePayment(ctx context.Context, payment *Payment) error
	MarkPaid(ctx context.Context, id, method string, paidAt time.Time) error
	SetStatus(ctx context.Context, id, status string) error
	DeletePayment(ctx context.Context, id string) error
}

// ExpenseRepository defines the persistence operations for common expenses.
type ExpenseRepository interface {
	ListCommonExpenses(ctx context.Context, condominiumID string, limit, offset int) ([]*CommonExpense, int, error)
	GetCommonExpense(ctx context.Context, id string) (*CommonExpense, error)
	CreateCommonExpense(ctx context.Context, expense *CommonExpense) error
	UpdateCommonExpense(ctx context.Context, expense *CommonExpense) error
	DeleteCommonExpense(ctx context.Context, id string) error
}
