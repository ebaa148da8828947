// Copyright (c) 2026 Veranda Systems. All rights reserved.

/*
Package auth implements the user identity and session management layer.

It defines the core domain entity (User) and the logic for authentication,
condominium selection, and the refresh-token lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/verandahq/veranda/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Veranda platform.
//
// At most ONE refresh token is valid per user at any time: the bcrypt hash of
// the latest issued refresh token lives in RefreshTokenHash and is overwritten
// on every login, condominium selection, and refresh, and cleared on logout.
type User struct {
	ID               string       `json:"id"`
	Email            string       `json:"email"`
	PasswordHash     string       `json:"-"` // Explicitly omitted from JSON for security.
	FirstName        string       `json:"first_name"`
	LastName         string       `json:"last_name"`
	Role             sec.UserRole `json:"role"`
	IsActive         bool         `json:"is_active"`
	RefreshTokenHash *string      `json:"-"` // Hash of the live refresh token. Omitted for security.
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	DeletedAt        *time.Time   `json:"-"` // soft-delete tracker
}

// TokenPair is a freshly-minted access/refresh token couple.
//
// RefreshToken is the PLAINTEXT signed token; it is returned to the client
// exactly once and only its hash is ever persisted.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldFirstName     = "first_name"
	FieldLastName      = "last_name"
	FieldRefreshToken  = "refresh_token"
	FieldCondominiumID = "condominium_id"
)
