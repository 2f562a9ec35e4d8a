// Package rbac holds the client-side permission policy: a static
// mapping from role to the set of capabilities the UI exposes. It is a
// UX convenience only; the backend enforces authorization for real.
package rbac

import "strings"

// Role is one of the closed set of roles the backend issues.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleManager, RoleUser}

// Permission is a named capability derived from role.
type Permission int

const (
	PermCreateUsers Permission = iota
	PermCreateProjects
	PermCreateMilestones
	PermCreateTasks
	PermAssignUsers
	PermAccessAllData
	PermManageUsers
	permCount
)

var permNames = [permCount]string{
	PermCreateUsers:      "canCreateUsers",
	PermCreateProjects:   "canCreateProjects",
	PermCreateMilestones: "canCreateMilestones",
	PermCreateTasks:      "canCreateTasks",
	PermAssignUsers:      "canAssignUsers",
	PermAccessAllData:    "canAccessAllData",
	PermManageUsers:      "canManageUsers",
}

func (p Permission) String() string {
	if p < 0 || p >= permCount {
		return "unknown"
	}
	return permNames[p]
}

// policy is the static permission table. Every role has an entry and
// the table never mutates at runtime.
var policy = map[Role][permCount]bool{
	RoleAdmin: {
		PermCreateUsers:      true,
		PermCreateProjects:   true,
		PermCreateMilestones: true,
		PermCreateTasks:      true,
		PermAssignUsers:      true,
		PermAccessAllData:    true,
		PermManageUsers:      true,
	},
	RoleManager: {
		PermCreateUsers:      false,
		PermCreateProjects:   true,
		PermCreateMilestones: true,
		PermCreateTasks:      true,
		PermAssignUsers:      true,
		PermAccessAllData:    true,
		PermManageUsers:      false,
	},
	RoleUser: {
		PermCreateUsers:      false,
		PermCreateProjects:   true,
		PermCreateMilestones: true,
		PermCreateTasks:      true,
		PermAssignUsers:      false,
		PermAccessAllData:    false,
		PermManageUsers:      false,
	},
}

// ParseRole normalizes a role string from the backend. Unknown or empty
// roles degrade to RoleUser, the least-privileged entry.
func ParseRole(s string) Role {
	switch Role(strings.TrimSpace(strings.ToLower(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	default:
		return RoleUser
	}
}

// Can reports whether role holds the permission. Roles outside the
// policy table hold nothing; lookups never panic.
func Can(role Role, perm Permission) bool {
	if perm < 0 || perm >= permCount {
		return false
	}
	perms, ok := policy[role]
	if !ok {
		return false
	}
	return perms[perm]
}

// IsAnyOf reports whether role is a member of candidates.
func IsAnyOf(role Role, candidates ...Role) bool {
	for _, c := range candidates {
		if role == c {
			return true
		}
	}
	return false
}

// Permissions returns the full capability set for a role, keyed by
// permission name. Used by whoami-style introspection.
func Permissions(role Role) map[string]bool {
	out := make(map[string]bool, permCount)
	for p := Permission(0); p < permCount; p++ {
		out[p.String()] = Can(role, p)
	}
	return out
}
