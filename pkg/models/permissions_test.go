package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission_ManageRoles(t *testing.T) {
	// Only admin tiers may manage roles
	assert.True(t, HasPermission(RoleAdmin, PermManageRoles))
	assert.True(t, HasPermission(RoleSuperAdmin, PermManageRoles))

	assert.False(t, HasPermission(RoleGuest, PermManageRoles))
	assert.False(t, HasPermission(RoleUser, PermManageRoles))
	assert.False(t, HasPermission(RoleVendor, PermManageRoles))
	assert.False(t, HasPermission(RoleContentManager, PermManageRoles))
	assert.False(t, HasPermission(RoleModerator, PermManageRoles))
}

func TestHasPermission_ApproveContent(t *testing.T) {
	assert.True(t, HasPermission(RoleContentManager, PermApproveContent))
	assert.True(t, HasPermission(RoleModerator, PermApproveContent))
	assert.True(t, HasPermission(RoleAdmin, PermApproveContent))
	assert.True(t, HasPermission(RoleSuperAdmin, PermApproveContent))

	assert.False(t, HasPermission(RoleGuest, PermApproveContent))
	assert.False(t, HasPermission(RoleUser, PermApproveContent))
	assert.False(t, HasPermission(RoleVendor, PermApproveContent))
}

func TestHasPermission_GuestsMaySubmit(t *testing.T) {
	// Anyone may submit a listing, including anonymous visitors
	assert.True(t, HasPermission(RoleGuest, PermAddClassified))
	assert.True(t, HasPermission(RoleGuest, PermReadContent))
	assert.False(t, HasPermission(RoleGuest, PermRejectContent))
}

func TestHasPermission_Wildcard(t *testing.T) {
	// super_admin carries "all" and passes any check
	assert.True(t, HasPermission(RoleSuperAdmin, PermBanUsers))
	assert.True(t, HasPermission(RoleSuperAdmin, PermRemoveContent))
	assert.True(t, HasPermission(RoleSuperAdmin, "some_future_capability"))
}

func TestHasPermission_UnknownRole(t *testing.T) {
	assert.False(t, HasPermission(UserRole("intruder"), PermReadContent))
}

func TestHasAnyPermission(t *testing.T) {
	assert.True(t, HasAnyPermission(RoleModerator, PermApproveContent, PermManageRoles))
	assert.True(t, HasAnyPermission(RoleAdmin, PermApproveContent, PermManageRoles))
	assert.False(t, HasAnyPermission(RoleUser, PermApproveContent, PermManageRoles))
}
