// Copyright (c) 2026 Veranda Systems. All rights reserved.

/*
Package account handles user administration and profile management.

It provides self-service profile updates for residents and the privileged
operations (role assignment, activation, soft deletion) reserved for
administrators.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Security: Role changes are gated by the strict hierarchy in [sec.CanAssign].
*/
package account

import (
	"context"

	"github.com/verandahq/veranda/internal/platform/sec"
	"github.com/verandahq/veranda/internal/users/auth"
)

// Filter holds the parameters for a paginated user search.
type Filter struct {
	Query          string // Matches against email, first name, last name
	Role           sec.UserRole
	IncludeDeleted bool // Administrative bypass of the soft-delete predicate
}

// # Repository Contract

// AccountRepository defines the persistence contract for user administration.
type AccountRepository interface {
	/*
		List retrieves a paginated page of users.

		Parameters:
		  - context: context.Context
		  - f: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*auth.User: Page of users
		  - int: Total matching rows
		  - error: Storage failures
	*/
	List(context context.Context, f Filter, limit, offset int) ([]*auth.User, int, error)

	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)
		  - includeDeleted: bool (administrative bypass)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string, includeDeleted bool) (*auth.User, error)

	/*
		Update modifies the mutable profile fields of an existing user
		(email, names, password hash).

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: apperr.Conflict on duplicate email, or storage failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		SetRole changes the role column of a live user row.

		Parameters:
		  - context: context.Context
		  - id: string
		  - role: sec.UserRole

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	SetRole(context context.Context, id string, role sec.UserRole) error

	/*
		SetActive toggles the account's active flag.

		Parameters:
		  - context: context.Context
		  - id: string
		  - active: bool

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	SetActive(context context.Context, id string, active bool) error

	/*
		SoftDelete flags an account as logically deleted.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	SoftDelete(context context.Context, id string) error

	/*
		Restore clears the soft-delete marker of an account.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Restore(context context.Context, id string) error
}
