// Copyright (c) 2026 Veranda Systems. All rights reserved.

package unit

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

func unitColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.Unit.ID, schema.Unit.UnitNumber, schema.Unit.Floor, schema.Unit.Block,
		schema.Unit.Area, schema.Unit.Bedrooms, schema.Unit.Bathrooms,
		schema.Unit.ParkingSpots, schema.Unit.StorageUnits, schema.Unit.Status,
		schema.Unit.IsOccupied, schema.Unit.BuildingID, schema.Unit.CurrentResidentID,
		schema.Unit.CreatedAt, schema.Unit.UpdatedAt,
	)
}

func scanUnit(row pgx.Row) (*Unit, error) {
	u := &Unit{}
	err := row.Scan(
		&u.ID, &u.UnitNumber, &u.Floor, &u.Block, &u.Area, &u.Bedrooms, &u.Bathrooms,
		&u.ParkingSpots, &u.StorageUnits, &u.Status, &u.IsOccupied,
		&u.BuildingID, &u.CurrentResidentID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (repository *PostgresRepository) ListUnits(context context.Context, buildingID string, limit, offset int) ([]*Unit, int, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
		ORDER BY %s ASC LIMIT $2 OFFSET $3
	`, unitColumns(), schema.Unit.Table,
		schema.Unit.BuildingID, schema.Unit.DeletedAt, schema.Unit.UnitNumber)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1 AND %s IS NULL`,
		schema.Unit.Table, schema.Unit.BuildingID, schema.Unit.DeletedAt)

	var total int
	if err := repository.db.QueryRow(context, countQuery, buildingID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_units")
	}

	rows, err := repository.db.Query(context, query, buildingID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_units")
	}
	defer rows.Close()

	var units []*Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_unit")
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_units")
	}

	return units, total, nil
}

func (repository *PostgresRepository) GetUnit(context context.Context, id string, includeDeleted bool) (*Unit, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
	`, unitColumns(), schema.Unit.Table, schema.Unit.ID)
	if !includeDeleted {
		query += fmt.Sprintf(" AND %s IS NULL", schema.Unit.DeletedAt)
	}

	u, err := scanUnit(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_unit")
	}
	return u, nil
}

// CreateUnit inserts a unit. The partial unique index on
// (buildingid, unitnumber) WHERE deletedat IS NULL surfaces duplicates as a
// Conflict through dberr.
func (repository *PostgresRepository) CreateUnit(context context.Context, u *Unit) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.Unit.Table,
		schema.Unit.ID, schema.Unit.UnitNumber, schema.Unit.Floor, schema.Unit.Block,
		schema.Unit.Area, schema.Unit.Bedrooms, schema.Unit.Bathrooms,
		schema.Unit.ParkingSpots, schema.Unit.StorageUnits, schema.Unit.Status,
		schema.Unit.IsOccupied, schema.Unit.BuildingID, schema.Unit.CurrentResidentID,
		schema.Unit.CreatedAt, schema.Unit.UpdatedAt,
		schema.Unit.CreatedAt, schema.Unit.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		u.ID, u.UnitNumber, u.Floor, u.Block, u.Area, u.Bedrooms, u.Bathrooms,
		u.ParkingSpots, u.StorageUnits, u.Status, u.IsOccupied, u.BuildingID, u.CurrentResidentID,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	return dberr.Wrap(err, "create_unit")
}

func (repository *PostgresRepository) UpdateUnit(context context.Context, u *Unit) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10, %s = $11, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		schema.Unit.Table,
		schema.Unit.UnitNumber, schema.Unit.Floor, schema.Unit.Block, schema.Unit.Area,
		schema.Unit.Bedrooms, schema.Unit.Bathrooms, schema.Unit.ParkingSpots,
		schema.Unit.StorageUnits, schema.Unit.Status, schema.Unit.IsOccupied,
		schema.Unit.UpdatedAt,
		schema.Unit.ID, schema.Unit.DeletedAt,
		schema.Unit.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		u.ID, u.UnitNumber, u.Floor, u.Block, u.Area, u.Bedrooms, u.Bathrooms,
		u.ParkingSpots, u.StorageUnits, u.Status, u.IsOccupied,
	).Scan(&u.UpdatedAt)
	return dberr.Wrap(err, "update_unit")
}

func (repository *PostgresRepository) DeleteUnit(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.Unit.Table, schema.Unit.DeletedAt, schema.Unit.ID, schema.Unit.DeletedAt)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_unit")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// AssignResident installs or clears the occupant link; the occupancy flag
// and status column track the residentID nullability.
func (repository *PostgresRepository) AssignResident(context context.Context, id string, residentID *string) error {
	status := StatusAvailable
	occupied := false
	if residentID != nil {
		status = StatusOccupied
		occupied = true
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1 AND %s IS NULL`,
		schema.Unit.Table,
		schema.Unit.CurrentResidentID, schema.Unit.IsOccupied, schema.Unit.Status, schema.Unit.UpdatedAt,
		schema.Unit.ID, schema.Unit.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id, residentID, occupied, status)
	if err != nil {
		return dberr.Wrap(err, "assign_resident")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
