// Copyright (c) 2026 Veranda Systems. All rights reserved.

package auth

import (
	"context"

	"github.com/verandahq/veranda/internal/core/condominium"
)

// # User Data Access

// UserStore defines the data access contract for user accounts.
//
// All lookups exclude soft-deleted rows. Inactive accounts ARE returned;
// the active check is a business rule owned by [Service].
type UserStore interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (Conflict on duplicate email)
	*/
	Create(context context.Context, user *User) error

	/*
		SetRefreshTokenHash replaces the stored refresh-token hash.

		Description: Passing nil clears the slot (logout). Clearing an
		already-empty slot succeeds, so repeated logouts are idempotent, but
		a missing or deleted row is NotFound; Logout surfaces that as an
		internal failure rather than a business error.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - hash: *string

		Returns:
		  - error: Persistence failures
	*/
	SetRefreshTokenHash(context context.Context, userID string, hash *string) error
}

// # Condominium Membership Access

// MembershipStore exposes the user↔condominium relation the auth flows need.
//
// The concrete implementation lives in [condominium.PostgresRepository];
// this narrow interface keeps the auth service mockable.
type MembershipStore interface {

	/*
		ListActive returns every active condominium (super-admin scope).
	*/
	ListActive(context context.Context) ([]*condominium.Condominium, error)

	/*
		ListForUser returns the condominiums the user is a member of.
	*/
	ListForUser(context context.Context, userID string) ([]*condominium.Condominium, error)

	/*
		IsMember reports whether the user is associated with the condominium.
	*/
	IsMember(context context.Context, userID, condominiumID string) (bool, error)

	/*
		Exists reports whether an active condominium with the ID exists.
	*/
	Exists(context context.Context, condominiumID string) (bool, error)
}
