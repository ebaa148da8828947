// Copyright (c) 2026 Veranda Systems. All rights reserved.

package building

import "context"

type Repository interface {
	ListBuildings(context context.Context, condominiumID string, limit, offset int) ([]*Building, int, error)
	GetBuilding(context context.Context, id string, includeDeleted bool) (*Building, error)
	CreateBuilding(context context.Context, b *Building) error
	UpdateBuilding(context context.Context, b *Building) error
	DeleteBuilding(context context.Context, id string) error
}
