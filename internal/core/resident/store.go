// Copyright (c) 2026 Veranda Systems. All rights reserved.

package resident

import "context"

type Repository interface {
	ListResidents(context context.Context, condominiumID string, f Filter, limit, offset int) ([]*Resident, int, error)
	GetResident(context context.Context, id string, includeDeleted bool) (*Resident, error)
	CreateResident(context context.Context, r *Resident) error
	UpdateResident(context context.Context, r *Resident) error
	DeleteResident(context context.Context, id string) error
	MoveOut(context context.Context, id string) error
}
