// Copyright (c) 2026 Veranda Systems. All rights reserved.

// Package payment tracks the money side of a condominium: individual payments
// owed by units and the monthly common expenses they derive from. Amounts are
// stored as integer minor units (cents) to keep arithmetic exact.
package payment

import "time"

// Payment statuses.
const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusOverdue   = "OVERDUE"
	StatusCancelled = "CANCELLED"
)

// Payment methods.
const (
	MethodBankTransfer = "BANK_TRANSFER"
	MethodCard         = "CARD"
	MethodCash         = "CASH"
	MethodOther        = "OTHER"
)

type Payment struct {
	ID              string     `json:"id"`
	Amount          int64      `json:"amount"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status"`
	Method          *string    `json:"method,omitempty"`
	Description     string     `json:"description"`
	DueDate         time.Time  `json:"due_date"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	UnitID          string     `json:"unit_id"`
	ResidentID      *string    `json:"resident_id,omitempty"`
	CommonExpenseID *string    `json:"common_expense_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"-"`
}

// CommonExpense is a condominium-wide charge for a billing period, identified
// by a "YYYY-MM" period string.
type CommonExpense struct {
	ID            string     `json:"id"`
	Period        string     `json:"period"`
	TotalAmount   int64      `json:"total_amount"`
	Currency      string     `json:"currency"`
	Description   string     `json:"description"`
	DueDate       time.Time  `json:"due_date"`
	CondominiumID string     `json:"condominium_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"`
}

// Filter narrows payment listings.
type Filter struct {
	UnitID     string
	ResidentID string
	Status     string
}

// Field names used in validation errors.
const (
	FieldAmount      = "amount"
	FieldCurrency    = "currency"
	FieldMethod      = "method"
	FieldDescription = "description"
	FieldDueDate     = "due_date"
	FieldUnitID      = "unit_id"
	FieldPeriod      = "period"
	FieldTotalAmount = "total_amount"
)
