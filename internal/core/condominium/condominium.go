// Copyright (c) 2026 Veranda Systems. All rights reserved.

/*
Package condominium manages the top-level tenant entity of Veranda.

A condominium is the tenancy boundary: buildings, units, residents, and
financial records all hang off a condominium, and scoped access tokens carry
its ID as a claim.
*/
package condominium

import "time"

// Condominium represents a managed property complex.
type Condominium struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	Country     string     `json:"country"`
	PostalCode  *string    `json:"postal_code"`
	Phone       *string    `json:"phone"`
	Email       *string    `json:"email"`
	Website     *string    `json:"website"`
	TaxID       *string    `json:"tax_id"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"` // soft-delete tracker
}

// Filter holds the parameters for a paginated condominium search.
type Filter struct {
	Query      string // Matches against name and city
	ActiveOnly bool
}

// Global field names for validation
const (
	FieldName       = "name"
	FieldAddress    = "address"
	FieldCity       = "city"
	FieldCountry    = "country"
	FieldEmail      = "email"
	FieldWebsite    = "website"
	FieldPostalCode = "postal_code"
)
