// Copyright (c) 2026 Veranda Systems. All rights reserved.

// Package commonspace manages the shared amenities of a condominium
// (party rooms, barbecue areas, courts) that residents can reserve.
package commonspace

import "time"

// CommonSpace represents a reservable shared amenity.
type CommonSpace struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description"`
	Capacity      int        `json:"capacity"`
	OpensAt       string     `json:"opens_at"`  // "HH:MM", 24h
	ClosesAt      string     `json:"closes_at"` // "HH:MM", 24h
	RequiresFee   bool       `json:"requires_fee"`
	FeeAmount     int64      `json:"fee_amount"` // minor currency units
	IsActive      bool       `json:"is_active"`
	CondominiumID string     `json:"condominium_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"` // soft-delete tracker
}

// Global field names for validation
const (
	FieldName     = "name"
	FieldCapacity = "capacity"
	FieldOpensAt  = "opens_at"
	FieldClosesAt = "closes_at"
)
