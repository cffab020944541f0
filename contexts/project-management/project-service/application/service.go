package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"foreman/contexts/project-management/project-service/domain/entities"
	domainerrors "foreman/contexts/project-management/project-service/domain/errors"
	"foreman/contexts/project-management/project-service/domain/services"
	"foreman/contexts/project-management/project-service/ports"
	"foreman/internal/shared/identity"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	defaultOwnerCacheTTL = 5 * time.Minute
)

// Service orchestrates every project and membership mutation. Each method
// evaluates the policy predicates in domain/services before touching state and
// runs as a single logical store operation per call; cross-entity consistency
// (the membership cascade on project delete) is the store's contract.
//
// Check order is uniform across project-scoped operations: input validation,
// then project existence, then tenant containment (reads) or the
// owner-or-admin gate (writes), then operation-specific checks.
type Service struct {
	Projects      ports.ProjectRepository
	Memberships   ports.MembershipRepository
	Users         ports.UserDirectory
	OwnerCache    ports.OwnerCache
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	OwnerCacheTTL time.Duration
	Logger        *slog.Logger
}

type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput carries a partial update. Blank-after-trim fields are
// treated as absent; supplying neither field is a validation error.
type UpdateProjectInput struct {
	Name        string
	Description string
}

type AssignUserInput struct {
	UserID string
	Role   string
}

// ProjectDetail is a project plus its resolved member list.
type ProjectDetail struct {
	Project entities.Project
	Members []ports.MemberView
}

// MemberList is the assigned-users read model.
type MemberList struct {
	Members []ports.MemberView
	Count   int
}

// CreateProject creates a project inside the actor's own tenant. The tenant is
// always taken from the identity, never from the request, so a caller cannot
// plant a project in a foreign tenant.
func (s Service) CreateProject(ctx context.Context, actor identity.Identity, input CreateProjectInput) (entities.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return entities.Project{}, domainerrors.ErrInvalidProjectName
	}

	allowed, err := s.canCreateProject(ctx, actor)
	if err != nil {
		return entities.Project{}, err
	}
	if !allowed {
		return entities.Project{}, domainerrors.ErrForbidden
	}

	id, err := s.newID(ctx)
	if err != nil {
		return entities.Project{}, err
	}
	now := s.now()
	project := entities.Project{
		ID:          id,
		TenantID:    actor.TenantID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Projects.CreateProject(ctx, project); err != nil {
		return entities.Project{}, err
	}

	ResolveLogger(s.Logger).Info("project created",
		"event", "project_created",
		"module", "project-management/project-service",
		"layer", "application",
		"project_id", project.ID,
		"tenant_id", project.TenantID,
		"actor_id", actor.UserID,
	)
	return project, nil
}

// ListProjects returns the actor's tenant's projects, optionally filtered by a
// case-insensitive name search. Listing needs no role: every tenant member may
// see their own tenant's projects, and the tenant filter is the isolation.
func (s Service) ListProjects(ctx context.Context, actor identity.Identity, page, limit int, search string) (ports.ProjectPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.Projects.ListProjects(ctx, ports.ProjectFilter{
		TenantID: actor.TenantID,
		Search:   strings.TrimSpace(search),
		Page:     page,
		Limit:    limit,
	})
}

// GetProject returns a project with its member list. Cross-tenant access is
// forbidden for every caller, global admins included, and the Forbidden answer
// is only reachable for projects that exist.
func (s Service) GetProject(ctx context.Context, actor identity.Identity, projectID string) (ProjectDetail, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return ProjectDetail{}, err
	}
	if !services.SameTenant(project.TenantID, actor) {
		return ProjectDetail{}, domainerrors.ErrTenantMismatch
	}
	members, err := s.Memberships.ListMembers(ctx, project.ID)
	if err != nil {
		return ProjectDetail{}, err
	}
	return ProjectDetail{Project: project, Members: members}, nil
}

// UpdateProject applies a partial update of name and/or description.
func (s Service) UpdateProject(ctx context.Context, actor identity.Identity, projectID string, input UpdateProjectInput) (entities.Project, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" && description == "" {
		return entities.Project{}, domainerrors.ErrEmptyUpdate
	}

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return entities.Project{}, err
	}
	if err := s.requireProjectAdminOrOwner(ctx, actor, project.ID); err != nil {
		return entities.Project{}, err
	}

	if name != "" {
		project.Name = name
	}
	if description != "" {
		project.Description = description
	}
	project.UpdatedAt = s.now()
	if err := s.Projects.UpdateProject(ctx, project); err != nil {
		return entities.Project{}, err
	}
	return project, nil
}

// DeleteProject removes a project. The store cascade removes every membership
// on it in the same operation, so each member's owner-cache entry is
// invalidated too: the deleted project may have carried their only owner
// membership in the tenant.
func (s Service) DeleteProject(ctx context.Context, actor identity.Identity, projectID string) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.requireProjectAdminOrOwner(ctx, actor, project.ID); err != nil {
		return err
	}
	members, err := s.Memberships.ListMembers(ctx, project.ID)
	if err != nil {
		return err
	}
	if err := s.Projects.DeleteProject(ctx, project.ID); err != nil {
		return err
	}
	for _, member := range members {
		s.invalidateOwnerCache(ctx, project.TenantID, member.UserID)
	}

	ResolveLogger(s.Logger).Info("project deleted",
		"event", "project_deleted",
		"module", "project-management/project-service",
		"layer", "application",
		"project_id", project.ID,
		"tenant_id", project.TenantID,
		"actor_id", actor.UserID,
	)
	return nil
}

// AssignUser grants a user a role on a project. The candidate must belong to
// the project's tenant, and the (project, user) pair must be unassigned; the
// duplicate check rides on the store's uniqueness constraint, so concurrent
// assigns of the same pair yield one success and one conflict.
func (s Service) AssignUser(ctx context.Context, actor identity.Identity, projectID string, input AssignUserInput) (entities.Membership, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return entities.Membership{}, domainerrors.ErrInvalidRequest
	}
	role, ok := entities.ParseRole(input.Role)
	if !ok {
		return entities.Membership{}, domainerrors.ErrInvalidRole
	}

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return entities.Membership{}, err
	}
	if err := s.requireProjectAdminOrOwner(ctx, actor, project.ID); err != nil {
		return entities.Membership{}, err
	}

	candidate, err := s.Users.GetUserRef(ctx, strings.TrimSpace(input.UserID))
	if err != nil {
		return entities.Membership{}, err
	}
	if candidate.TenantID != project.TenantID {
		return entities.Membership{}, domainerrors.ErrCrossTenantAssignee
	}

	id, err := s.newID(ctx)
	if err != nil {
		return entities.Membership{}, err
	}
	membership := entities.Membership{
		ID:        id,
		ProjectID: project.ID,
		UserID:    candidate.UserID,
		Role:      role,
		CreatedAt: s.now(),
	}
	if err := s.Memberships.CreateMembership(ctx, membership); err != nil {
		return entities.Membership{}, err
	}
	s.invalidateOwnerCache(ctx, project.TenantID, candidate.UserID)

	ResolveLogger(s.Logger).Info("project member assigned",
		"event", "project_member_assigned",
		"module", "project-management/project-service",
		"layer", "application",
		"project_id", project.ID,
		"user_id", candidate.UserID,
		"role", string(role),
		"actor_id", actor.UserID,
	)
	return membership, nil
}

// UpdateUserRole changes an existing membership's role in place. Role
// transitions only happen through this explicit call.
func (s Service) UpdateUserRole(ctx context.Context, actor identity.Identity, projectID, userID, newRole string) (entities.Membership, error) {
	role, ok := entities.ParseRole(newRole)
	if !ok {
		return entities.Membership{}, domainerrors.ErrInvalidRole
	}

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return entities.Membership{}, err
	}
	if err := s.requireProjectAdminOrOwner(ctx, actor, project.ID); err != nil {
		return entities.Membership{}, err
	}

	membership, err := s.Memberships.GetMembership(ctx, project.ID, strings.TrimSpace(userID))
	if err != nil {
		return entities.Membership{}, err
	}
	if err := s.Memberships.UpdateMembershipRole(ctx, project.ID, membership.UserID, role); err != nil {
		return entities.Membership{}, err
	}
	membership.Role = role
	s.invalidateOwnerCache(ctx, project.TenantID, membership.UserID)
	return membership, nil
}

// RemoveUser deletes a membership.
func (s Service) RemoveUser(ctx context.Context, actor identity.Identity, projectID, userID string) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.requireProjectAdminOrOwner(ctx, actor, project.ID); err != nil {
		return err
	}

	membership, err := s.Memberships.GetMembership(ctx, project.ID, strings.TrimSpace(userID))
	if err != nil {
		return err
	}
	if err := s.Memberships.DeleteMembership(ctx, project.ID, membership.UserID); err != nil {
		return err
	}
	s.invalidateOwnerCache(ctx, project.TenantID, membership.UserID)
	return nil
}

// GetAssignedUsers returns a project's member list with a count. The tenant
// check mirrors GetProject so this endpoint cannot leak memberships across
// tenants.
func (s Service) GetAssignedUsers(ctx context.Context, actor identity.Identity, projectID string) (MemberList, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return MemberList{}, err
	}
	if !services.SameTenant(project.TenantID, actor) {
		return MemberList{}, domainerrors.ErrTenantMismatch
	}
	members, err := s.Memberships.ListMembers(ctx, project.ID)
	if err != nil {
		return MemberList{}, err
	}
	return MemberList{Members: members, Count: len(members)}, nil
}

func (s Service) loadProject(ctx context.Context, projectID string) (entities.Project, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return entities.Project{}, domainerrors.ErrInvalidRequest
	}
	return s.Projects.GetProject(ctx, projectID)
}

// requireProjectAdminOrOwner is the single gate for every mutation: project
// update/delete and all membership changes go through exactly this check.
func (s Service) requireProjectAdminOrOwner(ctx context.Context, actor identity.Identity, projectID string) error {
	var membership *entities.Membership
	if !actor.IsGlobalAdmin() {
		m, err := s.Memberships.GetMembership(ctx, projectID, actor.UserID)
		switch {
		case err == nil:
			membership = &m
		case errors.Is(err, domainerrors.ErrMembershipNotFound):
			// Non-member: the predicate decides below.
		default:
			return err
		}
	}
	if !services.CanManageProject(actor, membership) {
		return domainerrors.ErrForbidden
	}
	return nil
}

func (s Service) canCreateProject(ctx context.Context, actor identity.Identity) (bool, error) {
	if actor.IsGlobalAdmin() {
		return true, nil
	}
	if s.OwnerCache != nil {
		owns, found, err := s.OwnerCache.Get(ctx, actor.TenantID, actor.UserID)
		if err == nil && found {
			return services.CanCreateProject(actor, owns), nil
		}
		if err != nil {
			ResolveLogger(s.Logger).Warn("owner cache read failed",
				"event", "owner_cache_read_failed",
				"module", "project-management/project-service",
				"layer", "application",
				"error", err.Error(),
			)
		}
	}

	owns, err := s.Memberships.HasOwnerMembership(ctx, actor.TenantID, actor.UserID)
	if err != nil {
		return false, err
	}
	if s.OwnerCache != nil {
		if err := s.OwnerCache.Set(ctx, actor.TenantID, actor.UserID, owns, s.ownerCacheTTL()); err != nil {
			ResolveLogger(s.Logger).Warn("owner cache write failed",
				"event", "owner_cache_write_failed",
				"module", "project-management/project-service",
				"layer", "application",
				"error", err.Error(),
			)
		}
	}
	return services.CanCreateProject(actor, owns), nil
}

func (s Service) invalidateOwnerCache(ctx context.Context, tenantID, userID string) {
	if s.OwnerCache == nil {
		return
	}
	if err := s.OwnerCache.Invalidate(ctx, tenantID, userID); err != nil {
		ResolveLogger(s.Logger).Warn("owner cache invalidate failed",
			"event", "owner_cache_invalidate_failed",
			"module", "project-management/project-service",
			"layer", "application",
			"tenant_id", tenantID,
			"user_id", userID,
			"error", err.Error(),
		)
	}
}

func (s Service) ownerCacheTTL() time.Duration {
	if s.OwnerCacheTTL <= 0 {
		return defaultOwnerCacheTTL
	}
	return s.OwnerCacheTTL
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) newID(ctx context.Context) (string, error) {
	return s.IDGenerator.NewID(ctx)
}
