// Copyright (c) 2026 Veranda Systems. All rights reserved.

package unit

import "context"

type Repository interface {
	ListUnits(context context.Context, buildingID string, limit, offset int) ([]*Unit, int, error)
	GetUnit(context context.Context, id string, includeDeleted bool) (*Unit, error)
	CreateUnit(context context.Context, u *Unit) error
	UpdateUnit(context context.Context, u *Unit) error
	DeleteUnit(context context.Context, id string) error
	AssignResident(context context.Context, id string, residentID *string) error
}
