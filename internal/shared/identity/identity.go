// Package identity defines the authenticated caller context shared by all
// service contexts. The credential verifier (platform/auth) is the only
// producer; services treat the value as trusted input.
package identity

// GlobalRole is the system-level privilege axis, separate from per-project roles.
type GlobalRole string

const (
	GlobalRoleAdmin  GlobalRole = "admin"
	GlobalRoleMember GlobalRole = "member"
)

// Valid reports whether the role is one of the closed global role set.
func (r GlobalRole) Valid() bool {
	return r == GlobalRoleAdmin || r == GlobalRoleMember
}

// Identity is the resolved caller context threaded explicitly into every
// application and policy call. Never stored as ambient state.
type Identity struct {
	UserID     string
	TenantID   string
	GlobalRole GlobalRole
}

// IsGlobalAdmin reports whether the caller holds the cross-tenant admin role.
func (id Identity) IsGlobalAdmin() bool {
	return id.GlobalRole == GlobalRoleAdmin
}
