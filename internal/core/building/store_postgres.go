// Copyright (c) 2026 Veranda Systems. All rights reserved.

package building

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

func buildingColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		schema.Building.ID, schema.Building.Name, schema.Building.Descr,
		schema.Building.Floors, schema.Building.UnitsCount, schema.Building.CondominiumID,
		schema.Building.CreatedAt, schema.Building.UpdatedAt,
	)
}

func scanBuilding(row pgx.Row) (*Building, error) {
	b := &Building{}
	err := row.Scan(
		&b.ID, &b.Name, &b.Description, &b.Floors, &b.UnitsCount, &b.CondominiumID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (repository *PostgresRepository) ListBuildings(context context.Context, condominiumID string, limit, offset int) ([]*Building, int, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
		ORDER BY %s ASC LIMIT $2 OFFSET $3
	`, buildingColumns(), schema.Building.Table,
		schema.Building.CondominiumID, schema.Building.DeletedAt, schema.Building.Name)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1 AND %s IS NULL`,
		schema.Building.Table, schema.Building.CondominiumID, schema.Building.DeletedAt)

	var total int
	if err := repository.db.QueryRow(context, countQuery, condominiumID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_buildings")
	}

	rows, err := repository.db.Query(context, query, condominiumID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_buildings")
	}
	defer rows.Close()

	var buildings []*Building
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_building")
		}
		buildings = append(buildings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_buildings")
	}

	return buildings, total, nil
}

func (repository *PostgresRepository) GetBuilding(context context.Context, id string, includeDeleted bool) (*Building, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
	`, buildingColumns(), schema.Building.Table, schema.Building.ID)
	if !includeDeleted {
		query += fmt.Sprintf(" AND %s IS NULL", schema.Building.DeletedAt)
	}

	b, err := scanBuilding(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_building")
	}
	return b, nil
}

func (repository *PostgresRepository) CreateBuilding(context context.Context, b *Building) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.Building.Table,
		schema.Building.ID, schema.Building.Name, schema.Building.Descr,
		schema.Building.Floors, schema.Building.UnitsCount, schema.Building.CondominiumID,
		schema.Building.CreatedAt, schema.Building.UpdatedAt,
		schema.Building.CreatedAt, schema.Building.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		b.ID, b.Name, b.Description, b.Floors, b.UnitsCount, b.CondominiumID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	return dberr.Wrap(err, "create_building")
}

func (repository *PostgresRepository) UpdateBuilding(context context.Context, b *Building) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		schema.Building.Table,
		schema.Building.Name, schema.Building.Descr, schema.Building.Floors,
		schema.Building.UnitsCount, schema.Building.UpdatedAt,
		schema.Building.ID, schema.Building.DeletedAt,
		schema.Building.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		b.ID, b.Name, b.Description, b.Floors, b.UnitsCount,
	).Scan(&b.UpdatedAt)
	return dberr.Wrap(err, "update_building")
}

func (repository *PostgresRepository) DeleteBuilding(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.Building.Table, schema.Building.DeletedAt, schema.Building.ID, schema.Building.DeletedAt)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_building")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
