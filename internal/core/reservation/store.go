// Copyright (c) 2026 Veranda Systems. All rights reserved.

package reservation

import "context"

/*
Repository defines the persistence operations for reservations.

# Operations

  - ListReservations: page through live reservations of a common space,
    optionally filtered by status or resident.
  - GetReservation: fetch a single live reservation.
  - CreateReservation: insert a new reservation row.
  - UpdateReservation: rewrite the editable fields of a reservation.
  - SetStatus: move a reservation to a new status.
  - DeleteReservation: soft delete a reservation.
*/
type Repository interface {
	ListReservations(ctx context.Context, commonSpaceID string, filter Filter, limit, offset int) ([]*Reservation, int, error)
	GetReservation(ctx context.Context, id string) (*Reservation, error)
	CreateReservation(ctx context.Context, reservation *Reservation) error
	UpdateReservation(ctx context.Context, reservation *Reservation) error
	SetStatus(ctx context.Context, id, status string) error
	DeleteReservation(ctx context.Context, id string) error
}
