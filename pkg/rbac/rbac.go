// Package rbac maps caller roles to the operations the lifecycle core gates.
// The acting role is supplied by the caller with each request; there is no
// session store behind this package.
package rbac

import "project-service/pkg/apperr"

// Roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

// Gated operations
const (
	PermissionLockTechStack     = "techstack:lock"
	PermissionUnlockTechStack   = "techstack:unlock"
	PermissionMutateLockedStack = "techstack:mutate_locked"
	PermissionDeleteProject     = "project:delete"
)

var rolePermissions = map[string][]string{
	RoleManager: {
		PermissionLockTechStack,
		PermissionUnlockTechStack,
		PermissionMutateLockedStack,
		PermissionDeleteProject,
	},
	RoleAdmin: {
		PermissionLockTechStack,
		PermissionUnlockTechStack,
		PermissionMutateLockedStack,
		PermissionDeleteProject,
	},
}

// HasPermission reports whether the role is allowed the given operation.
// Unknown roles have no permissions.
func HasPermission(role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission returns a PermissionDenied error when the role is not
// allowed the operation, nil otherwise.
func CheckPermission(role, permission string) error {
	if !HasPermission(role, permission) {
		return &apperr.PermissionDenied{Role: role, Action: permission}
	}
	return nil
}
