// Copyright (c) 2026 Veranda Systems. All rights reserved.

// Package resident manages the people living in or owning units.
//
// A resident belongs to exactly one condominium and is optionally linked to
// the unit they occupy. Residents are distinct from user accounts: a
// resident row is administrative data and carries no credentials.
package resident

import "time"

// Resident type values.
const (
	TypeOwner  = "OWNER"
	TypeTenant = "TENANT"
	TypeFamily = "FAMILY_MEMBER"
)

// Resident represents a person registered in a condominium.
type Resident struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Phone          *string    `json:"phone"`
	ResidentType   string     `json:"resident_type"`
	DocumentType   *string    `json:"document_type"`
	DocumentNumber *string    `json:"document_number"`
	IsActive       bool       `json:"is_active"`
	MoveInDate     *time.Time `json:"move_in_date"`
	MoveOutDate    *time.Time `json:"move_out_date"`
	CondominiumID  string     `json:"condominium_id"`
	UnitID         *string    `json:"unit_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"-"` // soft-delete tracker
}

// Filter holds the parameters for a paginated resident search.
type Filter struct {
	Query        string // Matches against name and email
	ResidentType string
	ActiveOnly   bool
}

// Global field names for validation
const (
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldEmail        = "email"
	FieldResidentType = "resident_type"
	FieldMoveOutDate  = "move_out_date"
)
