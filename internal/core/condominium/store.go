// Copyright (c) 2026 Veranda Systems. All rights reserved.

package condominium

import "context"

// Repository defines the storage contract for condominiums and their
// membership relation. The membership methods double as the access-check
// surface consumed by the authentication layer.
type Repository interface {
	ListCondominiums(context context.Context, f Filter, limit, offset int) ([]*Condominium, int, error)
	GetCondominium(context context.Context, id string, includeDeleted bool) (*Condominium, error)
	CreateCondominium(context context.Context, c *Condominium) error
	UpdateCondominium(context context.Context, c *Condominium) error
	DeleteCondominium(context context.Context, id string) error
	RestoreCondominium(context context.Context, id string) error

	// Membership relation (user_condominiums join table)
	ListActive(context context.Context) ([]*Condominium, error)
	ListForUser(context context.Context, userID string) ([]*Condominium, error)
	IsMember(context context.Context, userID, condominiumID string) (bool, error)
	Exists(context context.Context, condominiumID string) (bool, error)
	AddMember(context context.Context, condominiumID, userID string) error
	RemoveMember(context context.Context, condominiumID, userID string) error
}
