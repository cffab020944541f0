package ports

import (
	"context"
	"time"

	"foreman/contexts/project-management/project-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for new rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// ProjectFilter narrows ListProjects. TenantID is always set by the
// application layer; Search matches the project name case-insensitively.
type ProjectFilter struct {
	TenantID string
	Search   string
	Page     int
	Limit    int
}

// ProjectPage is one page of a tenant's projects plus paging metadata.
type ProjectPage struct {
	Items      []entities.Project
	Total      int64
	Page       int
	Limit      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// ProjectRepository is the project half of the store contract.
//
// DeleteProject cascades: removing a project removes every membership on it in
// the same store operation. The cascade is part of this contract, not an
// incidental database default, so concurrent membership writes cannot leave
// orphans behind.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project entities.Project) error
	GetProject(ctx context.Context, projectID string) (entities.Project, error)
	ListProjects(ctx context.Context, filter ProjectFilter) (ProjectPage, error)
	UpdateProject(ctx context.Context, project entities.Project) error
	DeleteProject(ctx context.Context, projectID string) error
}

// MemberView is the membership read model returned to callers: the join row
// plus the member's email resolved from the user record.
type MemberView struct {
	MembershipID string
	UserID       string
	Email        string
	Role         entities.Role
	CreatedAt    time.Time
}

// MembershipRepository holds per-project role assignments. Pure data access;
// policy lives in domain/services.
//
// CreateMembership must be atomic per (ProjectID, UserID): when two concurrent
// calls race on the same pair, exactly one succeeds and the other returns
// ErrAlreadyAssigned. Adapters back this with a store-level uniqueness
// constraint, not an application-side check.
type MembershipRepository interface {
	GetMembership(ctx context.Context, projectID, userID string) (entities.Membership, error)
	HasOwnerMembership(ctx context.Context, tenantID, userID string) (bool, error)
	ListMembers(ctx context.Context, projectID string) ([]MemberView, error)
	CreateMembership(ctx context.Context, membership entities.Membership) error
	UpdateMembershipRole(ctx context.Context, projectID, userID string, role entities.Role) error
	DeleteMembership(ctx context.Context, projectID, userID string) error
}

// AssigneeRef is the minimal user record needed to vet a candidate assignee.
type AssigneeRef struct {
	UserID   string
	TenantID string
	Email    string
}

// UserDirectory resolves candidate assignees. User records themselves are
// owned by the identity provider; this port only reads them.
type UserDirectory interface {
	GetUserRef(ctx context.Context, userID string) (AssigneeRef, error)
}

// OwnerCache caches the "holds an owner membership in this tenant" lookup that
// backs project-creation checks. Entries expire after a TTL and are
// invalidated on every membership mutation for the affected user, so a revoked
// owner loses create rights at the next mutation or TTL lapse, whichever
// comes first.
type OwnerCache interface {
	Get(ctx context.Context, tenantID, userID string) (owns bool, found bool, err error)
	Set(ctx context.Context, tenantID, userID string, owns bool, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID, userID string) error
}
