// Copyright (c) 2026 Veranda Systems. All rights reserved.

// Package reservation manages bookings of common spaces. A reservation moves
// through a small status machine: it is created PENDING, an admin confirms or
// cancels it, and a confirmed reservation is either completed after the event
// or cancelled before it.
package reservation

import "time"

// Reservation statuses.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// Reservation kinds.
const (
	KindPrivateEvent = "PRIVATE_EVENT"
	KindMeeting      = "MEETING"
	KindSports       = "SPORTS"
	KindOther        = "OTHER"
)

type Reservation struct {
	ID             string     `json:"id"`
	Date           time.Time  `json:"date"`
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	Status         string     `json:"status"`
	Kind           string     `json:"kind"`
	NumberOfGuests int        `json:"number_of_guests"`
	Purpose        *string    `json:"purpose,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	CommonSpaceID  string     `json:"common_space_id"`
	ResidentID     string     `json:"resident_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"-"`
}

// Filter narrows reservation listings.
type Filter struct {
	Status     string
	ResidentID string
}

// Field names used in validation errors.
const (
	FieldDate           = "date"
	FieldStartTime      = "start_time"
	FieldEndTime        = "end_time"
	FieldKind           = "kind"
	FieldNumberOfGuests = "number_of_guests"
	FieldResidentID     = "resident_id"
)
