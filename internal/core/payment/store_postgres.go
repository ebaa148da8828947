// Copyright (c) 2026 Veranda Systems. All rights reserved.

package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/verandahq/veranda/internal/platform/database/schema"
	"github.com/verandahq/veranda/internal/platform/dberr"
	"github.com/verandahq/veranda/internal/platform/postgres"
)

type PostgresRepository struct {
	db postgres.Querier
}

func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func paymentColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.Payment.ID, schema.Payment.Amount, schema.Payment.Currency,
		schema.Payment.Status, schema.Payment.Method, schema.Payment.Descr,
		schema.Payment.DueDate, schema.Payment.PaidAt, schema.Payment.UnitID,
		schema.Payment.ResidentID, schema.Payment.CommonExpenseID,
		schema.Payment.CreatedAt, schema.Payment.UpdatedAt,
	)
}

func scanPayment(row pgx.Row) (*Payment, error) {
	p := &Payment{}
	err := row.Scan(
		&p.ID, &p.Amount, &p.Currency, &p.Status, &p.Method, &p.Description,
		&p.DueDate, &p.PaidAt, &p.UnitID, &p.ResidentID, &p.CommonExpenseID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (repository *PostgresRepository) ListPayments(context context.Context, filter Filter, limit, offset int) ([]*Payment, int, error) {
	predicate := fmt.Sprintf("%s IS NULL", schema.Payment.DeletedAt)
	var args []any

	if filter.UnitID != "" {
		args = append(args, filter.UnitID)
		predicate += fmt.Sprintf(" AND %s = $%d", schema.Payment.UnitID, len(args))
	}
	if filter.ResidentID != "" {
		args = append(args, filter.ResidentID)
		predicate += fmt.Sprintf(" AND %s = $%d", schema.Payment.ResidentID, len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		predicate += fmt.Sprintf(" AND %s = $%d", schema.Payment.Status, len(args))
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s`, schema.Payment.Table, predicate)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_payments")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY %s DESC LIMIT $%d OFFSET $%d
	`, paymentColumns(), schema.Payment.Table, predicate,
		schema.Payment.DueDate, len(args)+1, len(args)+2)

	rows, err := repository.db.Query(context, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_payments")
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_payment")
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_payments")
	}

	return payments, total, nil
}

func (repository *PostgresRepository) GetPayment(context context.Context, id string) (*Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`, paymentColumns(), schema.Payment.Table, schema.Payment.ID, schema.Payment.DeletedAt)

	p, err := scanPayment(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_payment")
	}
	return p, nil
}

func (repository *PostgresRepository) CreatePayment(context context.Context, p *Payment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.Payment.Table,
		schema.Payment.ID, schema.Payment.Amount, schema.Payment.Currency,
		schema.Payment.Status, schema.Payment.Method, schema.Payment.Descr,
		schema.Payment.DueDate, schema.Payment.PaidAt, schema.Payment.UnitID,
		schema.Payment.ResidentID, schema.Payment.CommonExpenseID,
		schema.Payment.CreatedAt, schema.Payment.UpdatedAt,
		schema.Payment.CreatedAt, schema.Payment.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		p.ID, p.Amount, p.Currency, p.Status, p.Method, p.Description,
		p.DueDate, p.PaidAt, p.UnitID, p.ResidentID, p.CommonExpenseID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return dberr.Wrap(err, "create_payment")
}

func (repository *PostgresRepository) MarkPaid(context context.Context, id, method string, paidAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.Payment.Table,
		schema.Payment.Status, schema.Payment.Method, schema.Payment.PaidAt, schema.Payment.UpdatedAt,
		schema.Payment.ID, schema.Payment.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id, StatusPaid, method, paidAt)
	if err != nil {
		return dberr.Wrap(err, "mark_payment_paid")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SetStatus(context context.Context, id, status string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.Payment.Table, schema.Payment.Status, schema.Payment.UpdatedAt,
		schema.Payment.ID, schema.Payment.DeletedAt)

	cmd, err := repository.db.Exec(context, query, id, status)
	if err != nil {
		return dberr.Wrap(err, "set_payment_status")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeletePayment(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.Payment.Table, schema.Payment.DeletedAt, schema.Payment.ID, schema.Payment.DeletedAt)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_payment")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

type PostgresExpenseRepository struct {
	db postgres.Querier
}

func NewPostgresExpenseRepository(db postgres.Querier) *PostgresExpenseRepository {
	return &PostgresExpenseRepository{db: db}
}

func commonExpenseColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.CommonExpense.ID, schema.CommonExpense.Period, schema.CommonExpense.TotalAmount,
		schema.CommonExpense.Currency, schema.CommonExpense.Descr, schema.CommonExpense.DueDate,
		schema.CommonExpense.CondominiumID, schema.CommonExpense.CreatedAt, schema.CommonExpense.UpdatedAt,
	)
}

func scanCommonExpense(row pgx.Row) (*CommonExpense, error) {
	e := &CommonExpense{}
	err := row.Scan(
		&e.ID, &e.Period, &e.TotalAmount, &e.Currency, &e.Description,
		&e.DueDate, &e.CondominiumID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (repository *PostgresExpenseRepository) ListCommonExpenses(context context.Context, condominiumID string, limit, offset int) ([]*CommonExpense, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1 AND %s IS NULL`,
		schema.CommonExpense.Table, schema.CommonExpense.CondominiumID, schema.CommonExpense.DeletedAt)

	var total int
	if err := repository.db.QueryRow(context, countQuery, condominiumID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_common_expenses")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
		ORDER BY %s DESC LIMIT $2 OFFSET $3
	`, commonExpenseColumns(), schema.CommonExpense.Table,
		schema.CommonExpense.CondominiumID, schema.CommonExpense.DeletedAt, schema.CommonExpense.Period)

	rows, err := repository.db.Query(context, query, condominiumID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_common_expenses")
	}
	defer rows.Close()

	var expenses []*CommonExpense
	for rows.Next() {
		e, err := scanCommonExpense(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_common_expense")
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_common_expenses")
	}

	return expenses, total, nil
}

func (repository *PostgresExpenseRepository) GetCommonExpense(context context.Context, id string) (*CommonExpense, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`, commonExpenseColumns(), schema.CommonExpense.Table, schema.CommonExpense.ID, schema.CommonExpense.DeletedAt)

	e, err := scanCommonExpense(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_common_expense")
	}
	return e, nil
}

func (repository *PostgresExpenseRepository) CreateCommonExpense(context context.Context, e *CommonExpense) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.CommonExpense.Table,
		schema.CommonExpense.ID, schema.CommonExpense.Period, schema.CommonExpense.TotalAmount,
		schema.CommonExpense.Currency, schema.CommonExpense.Descr, schema.CommonExpense.DueDate,
		schema.CommonExpense.CondominiumID,
		schema.CommonExpense.CreatedAt, schema.CommonExpense.UpdatedAt,
		schema.CommonExpense.CreatedAt, schema.CommonExpense.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		e.ID, e.Period, e.TotalAmount, e.Currency, e.Description, e.DueDate, e.CondominiumID,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	return dberr.Wrap(err, "create_common_expense")
}

func (repository *PostgresExpenseRepository) UpdateCommonExpense(context context.Context, e *CommonExpense) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		schema.CommonExpense.Table,
		schema.CommonExpense.Period, schema.CommonExpense.TotalAmount, schema.CommonExpense.Currency,
		schema.CommonExpense.Descr, schema.CommonExpense.DueDate, schema.CommonExpense.UpdatedAt,
		schema.CommonExpense.ID, schema.CommonExpense.DeletedAt,
		schema.CommonExpense.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		e.ID, e.Period, e.TotalAmount, e.Currency, e.Description, e.DueDate,
	).Scan(&e.UpdatedAt)
	return dberr.Wrap(err, "update_common_expense")
}

func (repository *PostgresExpenseRepository) DeleteCommonExpense(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.CommonExpense.Table, schema.CommonExpense.DeletedAt, schema.CommonExpense.ID, schema.CommonExpense.DeletedAt)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_common_expense")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
