// Copyright (c) 2026 Veranda Systems. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted platform access across every condominium
	RoleSuperAdmin UserRole = "SUPER_ADMIN"

	// Manages the condominiums the account is a member of
	RoleAdmin UserRole = "ADMIN"

	// Default role for standard registered users
	RoleUser UserRole = "USER"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.Rank() >= target.Rank()
}

// Rank maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) Rank() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleSuperAdmin:
		return 30
	case RoleAdmin:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// CanAssign reports whether a caller with the given role may assign the
// target role to another account.
//
// # Contract
//
// A caller may only hand out roles strictly below their own. The single
// exception is the top of the hierarchy: SUPER_ADMIN may also grant
// SUPER_ADMIN, since otherwise nobody could ever create a second one.
func CanAssign(caller, target UserRole) bool {
	if target == RoleSuperAdmin {
		return caller == RoleSuperAdmin
	}
	return caller.Rank() > target.Rank()
}
