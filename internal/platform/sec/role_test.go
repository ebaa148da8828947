// Copyright (c) 2026 Veranda Systems. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verandahq/veranda/internal/platform/sec"
)

/*
TestUserRole_Rank verifies the total order over roles.
*/
func TestUserRole_Rank(t *testing.T) {
	assert.Greater(t, sec.RoleSuperAdmin.Rank(), sec.RoleAdmin.Rank())
	assert.Greater(t, sec.RoleAdmin.Rank(), sec.RoleUser.Rank())
	assert.Greater(t, sec.RoleUser.Rank(), sec.UserRole("garbage").Rank())
}

/*
TestUserRole_AtLeast verifies minimum-role endpoint gating.
*/
func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.UserRole
		required sec.UserRole
		want     bool
	}{
		{"super_admin_meets_admin", sec.RoleSuperAdmin, sec.RoleAdmin, true},
		{"admin_meets_admin", sec.RoleAdmin, sec.RoleAdmin, true},
		{"user_fails_admin", sec.RoleUser, sec.RoleAdmin, false},
		{"unknown_fails_user", sec.UserRole(""), sec.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.required))
		})
	}
}

/*
TestCanAssign covers the role-assignment contract: strictly-below assignment,
with the top role as the only one able to grant the top role.
*/
func TestCanAssign(t *testing.T) {
	tests := []struct {
		name   string
		caller sec.UserRole
		target sec.UserRole
		want   bool
	}{
		{"super_admin_assigns_super_admin", sec.RoleSuperAdmin, sec.RoleSuperAdmin, true},
		{"super_admin_assigns_admin", sec.RoleSuperAdmin, sec.RoleAdmin, true},
		{"super_admin_assigns_user", sec.RoleSuperAdmin, sec.RoleUser, true},
		{"admin_assigns_super_admin", sec.RoleAdmin, sec.RoleSuperAdmin, false},
		{"admin_assigns_admin", sec.RoleAdmin, sec.RoleAdmin, false},
		{"admin_assigns_user", sec.RoleAdmin, sec.RoleUser, true},
		{"user_assigns_user", sec.RoleUser, sec.RoleUser, false},
		{"user_assigns_admin", sec.RoleUser, sec.RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sec.CanAssign(tt.caller, tt.target))
		})
	}
}

/*
TestUserRole_Valid rejects values outside the known role set.
*/
func TestUserRole_Valid(t *testing.T) {
	assert.True(t, sec.RoleUser.Valid())
	assert.True(t, sec.RoleAdmin.Valid())
	assert.True(t, sec.RoleSuperAdmin.Valid())
	assert.False(t, sec.UserRole("MODERATOR").Valid())
	assert.False(t, sec.UserRole("").Valid())
}
