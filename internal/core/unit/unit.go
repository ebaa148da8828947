// Copyright (c) 2026 Veranda Systems. All rights reserved.

/*
Package unit manages the individual apartments and offices inside a building.

Units are the most frequently read entity in the system: billing, reservations,
and resident lookups all resolve through them. Reads are therefore served
cache-aside, including the per-building list pages.
*/
package unit

import "time"

// Status enumerates the occupancy lifecycle of a unit.
const (
	StatusAvailable   = "AVAILABLE"
	StatusOccupied    = "OCCUPIED"
	StatusMaintenance = "MAINTENANCE"
)

// Unit represents a single apartment, office, or commercial space.
type Unit struct {
	ID                string     `json:"id"`
	UnitNumber        string     `json:"unit_number"`
	Floor             int        `json:"floor"`
	Block             *string    `json:"block"`
	Area              *float64   `json:"area"` // square meters
	Bedrooms          int        `json:"bedrooms"`
	Bathrooms         int        `json:"bathrooms"`
	ParkingSpots      int        `json:"parking_spots"`
	StorageUnits      int        `json:"storage_units"`
	Status            string     `json:"status"`
	IsOccupied        bool       `json:"is_occupied"`
	BuildingID        string     `json:"building_id"`
	CurrentResidentID *string    `json:"current_resident_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	DeletedAt         *time.Time `json:"-"` // soft-delete tracker
}

// Global field names for validation
const (
	FieldUnitNumber = "unit_number"
	FieldFloor      = "floor"
	FieldStatus     = "status"
)
