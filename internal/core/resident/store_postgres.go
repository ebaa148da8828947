// Copyright (c) 2026 Veranda Systems. All rights reserved.

package resident

import (
	"context"
	"fmt"
	"strconv"

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

func residentColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.Resident.ID, schema.Resident.FirstName, schema.Resident.LastName,
		schema.Resident.Email, schema.Resident.Phone, schema.Resident.ResidentType,
		schema.Resident.DocumentType, schema.Resident.DocumentNumber, schema.Resident.IsActive,
		schema.Resident.MoveInDate, schema.Resident.MoveOutDate,
		schema.Resident.CondominiumID, schema.Resident.UnitID,
		schema.Resident.CreatedAt, schema.Resident.UpdatedAt,
	)
}

func scanResident(row pgx.Row) (*Resident, error) {
	r := &Resident{}
	err := row.Scan(
		&r.ID, &r.FirstName, &r.LastName, &r.Email, &r.Phone, &r.ResidentType,
		&r.DocumentType, &r.DocumentNumber, &r.IsActive, &r.MoveInDate, &r.MoveOutDate,
		&r.CondominiumID, &r.UnitID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (repository *PostgresRepository) ListResidents(context context.Context, condominiumID string, f Filter, limit, offset int) ([]*Resident, int, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`, residentColumns(), schema.Resident.Table, schema.Resident.CondominiumID, schema.Resident.DeletedAt)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1 AND %s IS NULL`,
		schema.Resident.Table, schema.Resident.CondominiumID, schema.Resident.DeletedAt)

	args := []any{condominiumID}
	countArgs := []any{condominiumID}

	if f.Query != "" {
		searchTerm := "%" + f.Query + "%"
		predicate := fmt.Sprintf(" AND (%s ILIKE $%d OR %s ILIKE $%d OR %s ILIKE $%d)",
			schema.Resident.FirstName, len(args)+1, schema.Resident.LastName, len(args)+1,
			schema.Resident.Email, len(args)+1)
		query += predicate
		countQuery += predicate
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	if f.ResidentType != "" {
		predicate := fmt.Sprintf(" AND %s = $%d", schema.Resident.ResidentType, len(args)+1)
		query += predicate
		countQuery += predicate
		args = append(args, f.ResidentType)
		countArgs = append(countArgs, f.ResidentType)
	}

	if f.ActiveOnly {
		predicate := fmt.Sprintf(" AND %s = TRUE", schema.Resident.IsActive)
		query += predicate
		countQuery += predicate
	}

	query += fmt.Sprintf(" ORDER BY %s ASC, %s ASC LIMIT $", schema.Resident.LastName, schema.Resident.FirstName) +
		strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_residents")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_residents")
	}
	defer rows.Close()

	var residents []*Resident
	for rows.Next() {
		r, err := scanResident(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_resident")
		}
		residents = append(residents, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_residents")
	}

	return residents, total, nil
}

func (repository *PostgresRepository) GetResident(context context.Context, id string, includeDeleted bool) (*Resident, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
	`, residentColumns(), schema.Resident.Table, schema.Resident.ID)
	if !includeDeleted {
		query += fmt.Sprintf(" AND %s IS NULL", schema.Resident.DeletedAt)
	}

	r, err := scanResident(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_resident")
	}
	return r, nil
}

func (repository *PostgresRepository) CreateResident(context context.Context, r *Resident) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.Resident.Table,
		schema.Resident.ID, schema.Resident.FirstName, schema.Resident.LastName,
		schema.Resident.Email, schema.Resident.Phone, schema.Resident.ResidentType,
		schema.Resident.DocumentType, schema.Resident.DocumentNumber, schema.Resident.IsActive,
		schema.Resident.MoveInDate, schema.Resident.MoveOutDate,
		schema.Resident.CondominiumID, schema.Resident.UnitID,
		schema.Resident.CreatedAt, schema.Resident.UpdatedAt,
		schema.Resident.CreatedAt, schema.Resident.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		r.ID, r.FirstName, r.LastName, r.Email, r.Phone, r.ResidentType,
		r.DocumentType, r.DocumentNumber, r.IsActive, r.MoveInDate, r.MoveOutDate,
		r.CondominiumID, r.UnitID,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	return dberr.Wrap(err, "create_resident")
}

func (repository *PostgresRepository) UpdateResident(context context.Context, r *Resident) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10, %s = $11, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		schema.Resident.Table,
		schema.Resident.FirstName, schema.Resident.LastName, schema.Resident.Email,
		schema.Resident.Phone, schema.Resident.ResidentType, schema.Resident.DocumentType,
		schema.Resident.DocumentNumber, schema.Resident.IsActive, schema.Resident.MoveInDate,
		schema.Resident.UnitID,
		schema.Resident.UpdatedAt,
		schema.Resident.ID, schema.Resident.DeletedAt,
		schema.Resident.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		r.ID, r.FirstName, r.LastName, r.Email, r.Phone, r.ResidentType,
		r.DocumentType, r.DocumentNumber, r.IsActive, r.MoveInDate, r.UnitID,
	).Scan(&r.UpdatedAt)
	return dberr.Wrap(err, "update_resident")
}

func (repository *PostgresRepository) DeleteResident(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.Resident.Table, schema.Resident.DeletedAt, schema.Resident.ID, schema.Resident.DeletedAt)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_resident")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// MoveOut stamps the move-out date, detaches the unit link, and deactivates
// the resident in one statement.
func (repository *PostgresRepository) MoveOut(context context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = NOW(), %s = NULL, %s = FALSE, %s = NOW()
		WHERE %s = $1 AND %s IS NULL AND %s IS NULL`,
		schema.Resident.Table,
		schema.Resident.MoveOutDate, schema.Resident.UnitID, schema.Resident.IsActive,
		schema.Resident.UpdatedAt,
		schema.Resident.ID, schema.Resident.DeletedAt, schema.Resident.MoveOutDate,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "move_out_resident")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
