package models

// Capability tokens. A role maps to a fixed token set; there is no
// per-resource ACL anywhere in the portal.
const (
	PermAll             = "all"
	PermReadContent     = "read_content"
	PermAddClassified   = "add_classified"
	PermEditOwnContent  = "edit_own_content"
	PermManageBusiness  = "manage_own_business"
	PermApproveContent  = "approve_content"
	PermRejectContent   = "reject_content"
	PermRemoveContent   = "remove_content"
	PermManageRoles     = "manage_roles"
	PermBanUsers        = "ban_users"
)

// Guests deliberately hold add_classified: anyone may submit a listing
// without an account.
var rolePermissions = map[UserRole][]string{
	RoleGuest:          {PermReadContent, PermAddClassified},
	RoleUser:           {PermReadContent, PermAddClassified, PermEditOwnContent},
	RoleVendor:         {PermReadContent, PermAddClassified, PermEditOwnContent, PermManageBusiness},
	RoleContentManager: {PermReadContent, PermAddClassified, PermApproveContent, PermRejectContent},
	RoleModerator:      {PermReadContent, PermAddClassified, PermApproveContent, PermRejectContent, PermRemoveContent},
	RoleAdmin:          {PermReadContent, PermAddClassified, PermApproveContent, PermRejectContent, PermRemoveContent, PermManageRoles, PermBanUsers},
	RoleSuperAdmin:     {PermAll},
}

// HasPermission is a pure function over the static capability table.
// Unknown roles hold nothing.
func HasPermission(role UserRole, capability string) bool {
	caps, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, c := range caps {
		if c == PermAll || c == capability {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the role holds at least one of the
// given capabilities.
func HasAnyPermission(role UserRole, capabilities ...string) bool {
	for _, capability := range capabilities {
		if HasPermission(role, capability) {
			return true
		}
	}
	return false
}

// PermissionsForRole returns a copy of the role's token set. Unknown
// roles hold nothing.
func PermissionsForRole(role UserRole) []string {
	caps, ok := rolePermissions[role]
	if !ok {
		return []string{}
	}
	out := make([]string, len(caps))
	copy(out, caps)
	return out
}

func IsValidRole(role UserRole) bool {
	_, ok := rolePermissions[role]
	return ok
}
