// Copyright (c) 2026 Veranda Systems. All rights reserved.

// Package building manages the physical towers and blocks of a condominium.
package building

import "time"

// Building represents a tower or block inside a condominium.
type Building struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description"`
	Floors        int        `json:"floors"`
	UnitsCount    int        `json:"units_count"`
	CondominiumID string     `json:"condominium_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"` // soft-delete tracker
}

// Global field names for validation
const (
	FieldName   = "name"
	FieldFloors = "floors"
)
