// Copyright (c) 2026 Veranda Systems. All rights reserved.

package commonspace

import "context"

type Repository interface {
	ListCommonSpaces(context context.Context, condominiumID string, limit, offset int) ([]*CommonSpace, int, error)
	GetCommonSpace(context context.Context, id string) (*CommonSpace, error)
	CreateCommonSpace(context context.Context, s *CommonSpace) error
	UpdateCommonSpace(context context.Context, s *CommonSpace) error
	DeleteCommonSpace(context context.Context, id string) error
}
