// Copyright (c) 2026 Veranda Systems. All rights reserved.

/*
Package account (Postgres) implements the storage layer for user administration.

# Schema Table Mapping
  - users: Master identity and profile data, including the soft-delete marker.
*/
package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/verandahq/veranda/internal/platform/apperr"
	"github.com/verandahq/veranda/internal/platform/database/schema"
	"github.com/verandahq/veranda/internal/platform/dberr"
	"github.com/verandahq/veranda/internal/platform/postgres"
	"github.com/verandahq/veranda/internal/platform/sec"
	"github.com/verandahq/veranda/internal/users/auth"
)

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool postgres.Querier
}

// NewAccountRepository creates a new Postgres implementation for user administration.
func NewAccountRepository(pool postgres.Querier) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// userColumns is the full SELECT column list. DeletedAt is included here,
// unlike the auth read path, because administrators inspect deleted rows.
func userColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.User.ID, schema.User.Email, schema.User.Password,
		schema.User.FirstName, schema.User.LastName, schema.User.Role,
		schema.User.IsActive, schema.User.RefreshTokenHash,
		schema.User.CreatedAt, schema.User.UpdatedAt, schema.User.DeletedAt,
	)
}

func scanUser(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Role, &user.IsActive, &user.RefreshTokenHash,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (repository *PostgresAccountRepository) List(context context.Context, f Filter, limit, offset int) ([]*auth.User, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE TRUE`, userColumns(), schema.User.Table)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE TRUE`, schema.User.Table)

	args := []any{}
	countArgs := []any{}

	if !f.IncludeDeleted {
		predicate := fmt.Sprintf(" AND %s IS NULL", schema.User.DeletedAt)
		query += predicate
		countQuery += predicate
	}

	if f.Query != "" {
		searchTerm := "%" + f.Query + "%"
		predicate := fmt.Sprintf(" AND (%s ILIKE $%d OR %s ILIKE $%d OR %s ILIKE $%d)",
			schema.User.Email, len(args)+1, schema.User.FirstName, len(args)+1, schema.User.LastName, len(args)+1)
		query += predicate
		countQuery += predicate
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	if f.Role != "" {
		predicate := fmt.Sprintf(" AND %s = $%d", schema.User.Role, len(args)+1)
		query += predicate
		countQuery += predicate
		args = append(args, f.Role)
		countArgs = append(countArgs, f.Role)
	}

	query += fmt.Sprintf(" ORDER BY %s DESC LIMIT $", schema.User.CreatedAt) + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	var users []*auth.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}

	return users, total, nil
}

func (repository *PostgresAccountRepository) FindByID(context context.Context, id string, includeDeleted bool) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns(), schema.User.Table, schema.User.ID)
	if !includeDeleted {
		query += fmt.Sprintf(" AND %s IS NULL", schema.User.DeletedAt)
	}

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6
		WHERE %s = $1 AND %s IS NULL`,
		schema.User.Table,
		schema.User.Email, schema.User.Password, schema.User.FirstName,
		schema.User.LastName, schema.User.UpdatedAt,
		schema.User.ID, schema.User.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		time.Now(),
	)
	if err != nil {
		return dberr.Wrap(err, "update_user")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

func (repository *PostgresAccountRepository) SetRole(context context.Context, id string, role sec.UserRole) error {
	return repository.setColumn(context, id, schema.User.Role, role)
}

func (repository *PostgresAccountRepository) SetActive(context context.Context, id string, active bool) error {
	return repository.setColumn(context, id, schema.User.IsActive, active)
}

func (repository *PostgresAccountRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.User.Table, schema.User.DeletedAt, schema.User.ID, schema.User.DeletedAt)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "soft_delete_user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

func (repository *PostgresAccountRepository) Restore(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NULL WHERE %s = $1 AND %s IS NOT NULL`,
		schema.User.Table, schema.User.DeletedAt, schema.User.ID, schema.User.DeletedAt)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "restore_user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// setColumn updates a single column on a live row, refreshing updatedat.
func (repository *PostgresAccountRepository) setColumn(context context.Context, id, column string, value any) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s IS NULL`,
		schema.User.Table, column, schema.User.UpdatedAt, schema.User.ID, schema.User.DeletedAt)

	tag, err := repository.pool.Exec(context, query, id, value, time.Now())
	if err != nil {
		return dberr.Wrap(err, "update_user_"+column)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
