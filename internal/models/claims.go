package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions.
const (
	PermissionWalletRead     = "wallet:read"
	PermissionWalletWrite    = "wallet:write"
	PermissionWithdrawalRead = "withdrawal:read"
	PermissionPackageBuy     = "package:buy"
	PermissionAdminRead      = "admin:read"
	PermissionAdminWrite     = "admin:write"
)

// Roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission.
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns the permission set for a role. Roles are a
// fixed enum checked through capability predicates, not runtime lookups.
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionWalletRead, PermissionWalletWrite,
			PermissionWithdrawalRead, PermissionPackageBuy,
			PermissionAdminRead, PermissionAdminWrite,
		}
	default:
		return []string{
			PermissionWalletRead, PermissionWalletWrite,
			PermissionWithdrawalRead, PermissionPackageBuy,
		}
	}
}
