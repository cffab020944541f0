// Package services holds the authorization policy for the project context.
// Every predicate is pure: it decides from the identity and membership records
// handed to it and never touches a store. The application layer loads the
// records and evaluates the same predicates before every operation, so no
// endpoint can drift from the policy.
package services

import (
	"foreman/contexts/project-management/project-service/domain/entities"
	"foreman/internal/shared/identity"
)

// CanCreateProject grants project creation to global admins and to users who
// already hold an owner membership on some project in their own tenant.
// Ownership elsewhere does not count: the check is tenant-scoped.
func CanCreateProject(actor identity.Identity, ownsProjectInTenant bool) bool {
	return actor.IsGlobalAdmin() || ownsProjectInTenant
}

// CanManageProject is the single gate for project update/delete and for every
// membership mutation. membership is the actor's own membership on the target
// project, or nil when the actor holds none.
func CanManageProject(actor identity.Identity, membership *entities.Membership) bool {
	if actor.IsGlobalAdmin() {
		return true
	}
	return membership != nil && membership.Role == entities.RoleOwner
}

// SameTenant reports whether a resource in the given tenant is visible to the
// actor. Applied to every project read and to candidate-assignee cross-checks;
// global admins get no exemption here.
func SameTenant(resourceTenantID string, actor identity.Identity) bool {
	return resourceTenantID == actor.TenantID
}
