// Copyright (c) 2026 Veranda Systems. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/verandahq/veranda/internal/platform/apperr"
	"github.com/verandahq/veranda/internal/platform/database/schema"
	"github.com/verandahq/veranda/internal/platform/dberr"
	"github.com/verandahq/veranda/internal/platform/postgres"
)

// # Repository Implementation

// PostgresUserRepository implements [UserStore] using pgx.
type PostgresUserRepository struct {
	pool postgres.Querier
}

// NewUserRepository creates a new Postgres implementation for identity storage.
func NewUserRepository(pool postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// selectUserQuery builds the full-row SELECT with the given predicate.
// Soft-deleted rows are always excluded; the identity of a destroyed
// account must not be resurrectable through login or refresh.
func selectUserQuery(predicate string) string {
	return fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s AND %s IS NULL`,
		schema.User.ID, schema.User.Email, schema.User.Password,
		schema.User.FirstName, schema.User.LastName, schema.User.Role,
		schema.User.IsActive, schema.User.RefreshTokenHash,
		schema.User.CreatedAt, schema.User.UpdatedAt,
		schema.User.Table,
		predicate, schema.User.DeletedAt,
	)
}

// scanUser hydrates a [User] from a full-row result.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.IsActive,
		&user.RefreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByID retrieves a live user record by primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := selectUserQuery(fmt.Sprintf("%s = $1", schema.User.ID))

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a live user record by email address.

Description: Used by login and registration-uniqueness checks. The email
column carries a unique index, so at most one live row can match.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := selectUserQuery(fmt.Sprintf("%s = $1", schema.User.Email))

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
Create persists a brand new user row.

Parameters:
  - context: context.Context
  - user: *User (ID and PasswordHash already populated)

Returns:
  - error: apperr.Conflict on duplicate email, or execution failures
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	now := time.Now()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schema.User.Table,
		schema.User.ID, schema.User.Email, schema.User.Password,
		schema.User.FirstName, schema.User.LastName, schema.User.Role,
		schema.User.IsActive, schema.User.RefreshTokenHash,
		schema.User.CreatedAt, schema.User.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.IsActive,
		user.RefreshTokenHash,
		now,
		now,
	)
	if err != nil {
		return dberr.Wrap(err, "create_user")
	}

	user.CreatedAt = now
	user.UpdatedAt = now

	return nil
}

/*
SetRefreshTokenHash installs or clears the account's refresh-token hash.

Description: Passing nil clears the slot (logout). The row's updatedat is
refreshed so session rotation shows up in audit queries.

Parameters:
  - context: context.Context
  - userID: string
  - hash: *string (nil to clear)

Returns:
  - error: apperr.NotFound if the user row is missing, or execution failures
*/
func (repository *PostgresUserRepository) SetRefreshTokenHash(context context.Context, userID string, hash *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1 AND %s IS NULL`,
		schema.User.Table,
		schema.User.RefreshTokenHash, schema.User.UpdatedAt,
		schema.User.ID, schema.User.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, userID, hash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_refresh_hash_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
