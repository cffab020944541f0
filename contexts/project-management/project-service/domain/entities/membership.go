package entities

import (
	"strings"
	"time"
)

// Role is the per-project privilege axis stored on a membership. It is a
// separate axis from the global admin/member role.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleDeveloper Role = "developer"
	RoleViewer    Role = "viewer"
)

// ParseRole normalizes and validates a caller-supplied role value.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleOwner:
		return RoleOwner, true
	case RoleDeveloper:
		return RoleDeveloper, true
	case RoleViewer:
		return RoleViewer, true
	default:
		return "", false
	}
}

// Membership grants a user a role on a project. At most one membership exists
// per (ProjectID, UserID) pair; the store enforces the uniqueness.
type Membership struct {
	ID        string
	ProjectID string
	UserID    string
	Role      Role
	CreatedAt time.Time
}
