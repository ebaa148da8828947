// Copyright (c) 2026 Veranda Systems. All rights reserved.

package reservation

import (
	"context"
	"fmt"

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

func reservationColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.Reservation.ID, schema.Reservation.Date, schema.Reservation.StartTime,
		schema.Reservation.EndTime, schema.Reservation.Status, schema.Reservation.Kind,
		schema.Reservation.NumberOfGuests, schema.Reservation.Purpose, schema.Reservation.Notes,
		schema.Reservation.CommonSpaceID, schema.Reservation.ResidentID,
		schema.Reservation.CreatedAt, schema.Reservation.UpdatedAt,
	)
}

func scanReservation(row pgx.Row) (*Reservation, error) {
	r := &Reservation{}
	err := row.Scan(
		&r.ID, &r.Date, &r.StartTime, &r.EndTime, &r.Status, &r.Kind,
		&r.NumberOfGuests, &r.Purpose, &r.Notes, &r.CommonSpaceID, &r.ResidentID,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (repository *PostgresRepository) ListReservations(context context.Context, commonSpaceID string, filter Filter, limit, offset int) ([]*Reservation, int, error) {
	predicate := fmt.Sprintf("%s = $1 AND %s IS NULL", schema.Reservation.CommonSpaceID, schema.Reservation.DeletedAt)
	args := []any{commonSpaceID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		predicate += fmt.Sprintf(" AND %s = $%d", schema.Reservation.Status, len(args))
	}
	if filter.ResidentID != "" {
		args = append(args, filter.ResidentID)
		predicate += fmt.Sprintf(" AND %s = $%d", schema.Reservation.ResidentID, len(args))
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s`, schema.Reservation.Table, predicate)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_reservations")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY %s DESC, %s ASC LIMIT $%d OFFSET $%d
	`, reservationColumns(), schema.Reservation.Table, predicate,
		schema.Reservation.Date, schema.Reservation.StartTime, len(args)+1, len(args)+2)

	rows, err := repository.db.Query(context, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reservations")
	}
	defer rows.Close()

	var reservations []*Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_reservation")
		}
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_reservations")
	}

	return reservations, total, nil
}

func (repository *PostgresRepository) GetReservation(context context.Context, id string) (*Reservation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`, reservationColumns(), schema.Reservation.Table, schema.Reservation.ID, schema.Reservation.DeletedAt)

	r, err := scanReservation(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_reservation")
	}
	return r, nil
}

func (repository *PostgresRepository) CreateReservation(context context.Context, r *Reservation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.Reservation.Table,
		schema.Reservation.ID, schema.Reservation.Date, schema.Reservation.StartTime,
		schema.Reservation.EndTime, schema.Reservation.Status, schema.Reservation.Kind,
		schema.Reservation.NumberOfGuests, schema.Reservation.Purpose, schema.Reservation.Notes,
		schema.Reservation.CommonSpaceID, schema.Reservation.ResidentID,
		schema.Reservation.CreatedAt, schema.Reservation.UpdatedAt,
		schema.Reservation.CreatedAt, schema.Reservation.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		r.ID, r.Date, r.StartTime, r.EndTime, r.Status, r.Kind,
		r.NumberOfGuests, r.Purpose, r.Notes, r.CommonSpaceID, r.ResidentID,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	return dberr.Wrap(err, "create_reservation")
}

func (repository *PostgresRepository) UpdateReservation(context context.Context, r *Reservation) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		schema.Reservation.Table,
		schema.Reservation.Date, schema.Reservation.StartTime, schema.Reservation.EndTime,
		schema.Reservation.Kind, schema.Reservation.NumberOfGuests, schema.Reservation.Purpose,
		schema.Reservation.Notes, schema.Reservation.UpdatedAt,
		schema.Reservation.ID, schema.Reservation.DeletedAt,
		schema.Reservation.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		r.ID, r.Date, r.StartTime, r.EndTime, r.Kind, r.NumberOfGuests, r.Purpose, r.Notes,
	).Scan(&r.UpdatedAt)
	return dberr.Wrap(err, "update_reservation")
}

func (repository *PostgresRepository) SetStatus(context context.Context, id, status string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.Reservation.Table, schema.Reservation.Status, schema.Reservation.UpdatedAt,
		schema.Reservation.ID, schema.Reservation.DeletedAt)

	cmd, err := repository.db.Exec(context, query, id, status)
	if err != nil {
		return dberr.Wrap(err, "set_reservation_status")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteReservation(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.Reservation.Table, schema.Reservation.DeletedAt, schema.Reservation.ID, schema.Reservation.DeletedAt)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_reservation")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
