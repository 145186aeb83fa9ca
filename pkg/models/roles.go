package models

type UserRole string

const (
	RoleGuest          UserRole = "guest"
	RoleUser           UserRole = "user"
	RoleVendor         UserRole = "vendor"
	RoleContentManager UserRole = "content_manager"
	RoleModerator      UserRole = "moderator"
	RoleAdmin          UserRole = "admin"
	RoleSuperAdmin     UserRole = "super_admin"
)
