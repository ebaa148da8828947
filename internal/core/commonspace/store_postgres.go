// Copyright (c) 2026 Veranda Systems. All rights reserved.

package commonspace

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

func commonSpaceColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.CommonSpace.ID, schema.CommonSpace.Name, schema.CommonSpace.Descr,
		schema.CommonSpace.Capacity, schema.CommonSpace.OpensAt, schema.CommonSpace.ClosesAt,
		schema.CommonSpace.RequiresFee, schema.CommonSpace.FeeAmount, schema.CommonSpace.IsActive,
		schema.CommonSpace.CondominiumID, schema.CommonSpace.CreatedAt, schema.CommonSpace.UpdatedAt,
	)
}

func scanCommonSpace(row pgx.Row) (*CommonSpace, error) {
	s := &CommonSpace{}
	err := row.Scan(
		&s.ID, &s.Name, &s.Description, &s.Capacity, &s.OpensAt, &s.ClosesAt,
		&s.RequiresFee, &s.FeeAmount, &s.IsActive, &s.CondominiumID,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (repository *PostgresRepository) ListCommonSpaces(context context.Context, condominiumID string, limit, offset int) ([]*CommonSpace, int, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
		ORDER BY %s ASC LIMIT $2 OFFSET $3
	`, commonSpaceColumns(), schema.CommonSpace.Table,
		schema.CommonSpace.CondominiumID, schema.CommonSpace.DeletedAt, schema.CommonSpace.Name)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1 AND %s IS NULL`,
		schema.CommonSpace.Table, schema.CommonSpace.CondominiumID, schema.CommonSpace.DeletedAt)

	var total int
	if err := repository.db.QueryRow(context, countQuery, condominiumID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_common_spaces")
	}

	rows, err := repository.db.Query(context, query, condominiumID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_common_spaces")
	}
	defer rows.Close()

	var spaces []*CommonSpace
	for rows.Next() {
		s, err := scanCommonSpace(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_common_space")
		}
		spaces = append(spaces, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_common_spaces")
	}

	return spaces, total, nil
}

func (repository *PostgresRepository) GetCommonSpace(context context.Context, id string) (*CommonSpace, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`, commonSpaceColumns(), schema.CommonSpace.Table, schema.CommonSpace.ID, schema.CommonSpace.DeletedAt)

	s, err := scanCommonSpace(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_common_space")
	}
	return s, nil
}

func (repository *PostgresRepository) CreateCommonSpace(context context.Context, s *CommonSpace) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.CommonSpace.Table,
		schema.CommonSpace.ID, schema.CommonSpace.Name, schema.CommonSpace.Descr,
		schema.CommonSpace.Capacity, schema.CommonSpace.OpensAt, schema.CommonSpace.ClosesAt,
		schema.CommonSpace.RequiresFee, schema.CommonSpace.FeeAmount, schema.CommonSpace.IsActive,
		schema.CommonSpace.CondominiumID,
		schema.CommonSpace.CreatedAt, schema.CommonSpace.UpdatedAt,
		schema.CommonSpace.CreatedAt, schema.CommonSpace.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		s.ID, s.Name, s.Description, s.Capacity, s.OpensAt, s.ClosesAt,
		s.RequiresFee, s.FeeAmount, s.IsActive, s.CondominiumID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return dberr.Wrap(err, "create_common_space")
}

func (repository *PostgresRepository) UpdateCommonSpace(context context.Context, s *CommonSpace) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		schema.CommonSpace.Table,
		schema.CommonSpace.Name, schema.CommonSpace.Descr, schema.CommonSpace.Capacity,
		schema.CommonSpace.OpensAt, schema.CommonSpace.ClosesAt, schema.CommonSpace.RequiresFee,
		schema.CommonSpace.FeeAmount, schema.CommonSpace.IsActive, schema.CommonSpace.UpdatedAt,
		schema.CommonSpace.ID, schema.CommonSpace.DeletedAt,
		schema.CommonSpace.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		s.ID, s.Name, s.Description, s.Capacity, s.OpensAt, s.ClosesAt,
		s.RequiresFee, s.FeeAmount, s.IsActive,
	).Scan(&s.UpdatedAt)
	return dberr.Wrap(err, "update_common_space")
}

func (repository *PostgresRepository) DeleteCommonSpace(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.CommonSpace.Table, schema.CommonSpace.DeletedAt, schema.CommonSpace.ID, schema.CommonSpace.DeletedAt)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_common_space")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
