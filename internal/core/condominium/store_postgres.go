// Copyright (c) 2026 Veranda Systems. All rights reserved.

package condominium

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

// condominiumColumns is the full SELECT column list, minus deletedat.
func condominiumColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.Condominium.ID, schema.Condominium.Name, schema.Condominium.Descr,
		schema.Condominium.Address, schema.Condominium.City, schema.Condominium.Country,
		schema.Condominium.PostalCode, schema.Condominium.Phone, schema.Condominium.Email,
		schema.Condominium.Website, schema.Condominium.TaxID, schema.Condominium.IsActive,
		schema.Condominium.CreatedAt, schema.Condominium.UpdatedAt,
	)
}

func scanCondominium(row pgx.Row) (*Condominium, error) {
	c := &Condominium{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Address, &c.City, &c.Country,
		&c.PostalCode, &c.Phone, &c.Email, &c.Website, &c.TaxID, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (repository *PostgresRepository) ListCondominiums(context context.Context, f Filter, limit, offset int) ([]*Condominium, int, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s IS NULL
	`, condominiumColumns(), schema.Condominium.Table, schema.Condominium.DeletedAt)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s IS NULL`,
		schema.Condominium.Table, schema.Condominium.DeletedAt)

	args := []any{}
	countArgs := []any{}

	if f.Query != "" {
		searchTerm := "%" + f.Query + "%"
		predicate := fmt.Sprintf(" AND (%s ILIKE $%d OR %s ILIKE $%d)",
			schema.Condominium.Name, len(args)+1, schema.Condominium.City, len(args)+1)
		query += predicate
		countQuery += predicate
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	if f.ActiveOnly {
		predicate := fmt.Sprintf(" AND %s = TRUE", schema.Condominium.IsActive)
		query += predicate
		countQuery += predicate
	}

	query += fmt.Sprintf(" ORDER BY %s ASC LIMIT $", schema.Condominium.Name) + itos(len(args)+1) + ` OFFSET $` + itos(len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_condominiums")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_condominiums")
	}
	defer rows.Close()

	condominiums, err := collectCondominiums(rows)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "scan_condominium")
	}

	return condominiums, total, nil
}

func (repository *PostgresRepository) GetCondominium(context context.Context, id string, includeDeleted bool) (*Condominium, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
	`, condominiumColumns(), schema.Condominium.Table, schema.Condominium.ID)
	if !includeDeleted {
		query += fmt.Sprintf(" AND %s IS NULL", schema.Condominium.DeletedAt)
	}

	c, err := scanCondominium(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_condominium")
	}
	return c, nil
}

func (repository *PostgresRepository) CreateCondominium(context context.Context, c *Condominium) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.Condominium.Table,
		schema.Condominium.ID, schema.Condominium.Name, schema.Condominium.Descr,
		schema.Condominium.Address, schema.Condominium.City, schema.Condominium.Country,
		schema.Condominium.PostalCode, schema.Condominium.Phone, schema.Condominium.Email,
		schema.Condominium.Website, schema.Condominium.TaxID, schema.Condominium.IsActive,
		schema.Condominium.CreatedAt, schema.Condominium.UpdatedAt,
		schema.Condominium.CreatedAt, schema.Condominium.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		c.ID, c.Name, c.Description, c.Address, c.City, c.Country,
		c.PostalCode, c.Phone, c.Email, c.Website, c.TaxID, c.IsActive,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return dberr.Wrap(err, "create_condominium")
}

func (repository *PostgresRepository) UpdateCondominium(context context.Context, c *Condominium) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10, %s = $11, %s = $12, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		schema.Condominium.Table,
		schema.Condominium.Name, schema.Condominium.Descr, schema.Condominium.Address,
		schema.Condominium.City, schema.Condominium.Country, schema.Condominium.PostalCode,
		schema.Condominium.Phone, schema.Condominium.Email, schema.Condominium.Website,
		schema.Condominium.TaxID, schema.Condominium.IsActive, schema.Condominium.UpdatedAt,
		schema.Condominium.ID, schema.Condominium.DeletedAt,
		schema.Condominium.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		c.ID, c.Name, c.Description, c.Address, c.City, c.Country,
		c.PostalCode, c.Phone, c.Email, c.Website, c.TaxID, c.IsActive,
	).Scan(&c.UpdatedAt)
	return dberr.Wrap(err, "update_condominium")
}

func (repository *PostgresRepository) DeleteCondominium(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.Condominium.Table, schema.Condominium.DeletedAt,
		schema.Condominium.ID, schema.Condominium.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_condominium")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) RestoreCondominium(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NULL WHERE %s = $1 AND %s IS NOT NULL`,
		schema.Condominium.Table, schema.Condominium.DeletedAt,
		schema.Condominium.ID, schema.Condominium.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "restore_condominium")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Membership Relation

func (repository *PostgresRepository) ListActive(context context.Context) ([]*Condominium, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s IS NULL AND %s = TRUE
		ORDER BY %s ASC
	`, condominiumColumns(), schema.Condominium.Table,
		schema.Condominium.DeletedAt, schema.Condominium.IsActive, schema.Condominium.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_active_condominiums")
	}
	defer rows.Close()

	condominiums, err := collectCondominiums(rows)
	if err != nil {
		return nil, dberr.Wrap(err, "scan_condominium")
	}
	return condominiums, nil
}

func (repository *PostgresRepository) ListForUser(context context.Context, userID string) ([]*Condominium, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s c
		JOIN %s uc ON uc.%s = c.%s
		WHERE uc.%s = $1 AND c.%s IS NULL AND c.%s = TRUE
		ORDER BY c.%s ASC
	`, prefixColumns("c"),
		schema.Condominium.Table,
		schema.UserCondominium.Table, schema.UserCondominium.CondominiumID, schema.Condominium.ID,
		schema.UserCondominium.UserID, schema.Condominium.DeletedAt, schema.Condominium.IsActive,
		schema.Condominium.Name,
	)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_user_condominiums")
	}
	defer rows.Close()

	condominiums, err := collectCondominiums(rows)
	if err != nil {
		return nil, dberr.Wrap(err, "scan_condominium")
	}
	return condominiums, nil
}

func (repository *PostgresRepository) IsMember(context context.Context, userID, condominiumID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1
			FROM %s uc
			JOIN %s c ON c.%s = uc.%s
			WHERE uc.%s = $1 AND uc.%s = $2 AND c.%s IS NULL AND c.%s = TRUE
		)
	`,
		schema.UserCondominium.Table,
		schema.Condominium.Table, schema.Condominium.ID, schema.UserCondominium.CondominiumID,
		schema.UserCondominium.UserID, schema.UserCondominium.CondominiumID,
		schema.Condominium.DeletedAt, schema.Condominium.IsActive,
	)

	var member bool
	if err := repository.db.QueryRow(context, query, userID, condominiumID).Scan(&member); err != nil {
		return false, dberr.Wrap(err, "check_membership")
	}
	return member, nil
}

func (repository *PostgresRepository) Exists(context context.Context, condominiumID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE %s = $1 AND %s IS NULL AND %s = TRUE
		)
	`, schema.Condominium.Table, schema.Condominium.ID,
		schema.Condominium.DeletedAt, schema.Condominium.IsActive)

	var exists bool
	if err := repository.db.QueryRow(context, query, condominiumID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_condominium_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) AddMember(context context.Context, condominiumID, userID string) error {
	// ON CONFLICT keeps the operation idempotent for re-invites.
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, NOW())
		ON CONFLICT (%s, %s) DO NOTHING
	`,
		schema.UserCondominium.Table,
		schema.UserCondominium.UserID, schema.UserCondominium.CondominiumID, schema.UserCondominium.CreatedAt,
		schema.UserCondominium.UserID, schema.UserCondominium.CondominiumID,
	)

	_, err := repository.db.Exec(context, query, userID, condominiumID)
	return dberr.Wrap(err, "add_member")
}

func (repository *PostgresRepository) RemoveMember(context context.Context, condominiumID, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.UserCondominium.Table,
		schema.UserCondominium.UserID, schema.UserCondominium.CondominiumID,
	)

	cmd, err := repository.db.Exec(context, query, userID, condominiumID)
	if err != nil {
		return dberr.Wrap(err, "remove_member")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Helpers

func collectCondominiums(rows pgx.Rows) ([]*Condominium, error) {
	var condominiums []*Condominium
	for rows.Next() {
		c, err := scanCondominium(rows)
		if err != nil {
			return nil, err
		}
		condominiums = append(condominiums, c)
	}
	return condominiums, rows.Err()
}

// prefixColumns qualifies the SELECT column list with a table alias.
func prefixColumns(alias string) string {
	columns := ""
	for i, column := range []string{
		schema.Condominium.ID, schema.Condominium.Name, schema.Condominium.Descr,
		schema.Condominium.Address, schema.Condominium.City, schema.Condominium.Country,
		schema.Condominium.PostalCode, schema.Condominium.Phone, schema.Condominium.Email,
		schema.Condominium.Website, schema.Condominium.TaxID, schema.Condominium.IsActive,
		schema.Condominium.CreatedAt, schema.Condominium.UpdatedAt,
	} {
		if i > 0 {
			columns += ", "
		}
		columns += alias + "." + column
	}
	return columns
}

func itos(i int) string {
	return strconv.Itoa(i)
}
