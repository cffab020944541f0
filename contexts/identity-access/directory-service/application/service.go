package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"foreman/contexts/identity-access/directory-service/domain/entities"
	domainerrors "foreman/contexts/identity-access/directory-service/domain/errors"
	"foreman/contexts/identity-access/directory-service/ports"
	"foreman/internal/shared/identity"
)

// Service serves tenant management and the tenant-scoped user directory.
// Login, registration and credential handling live with the external identity
// provider; nothing here touches passwords.
type Service struct {
	Tenants     ports.TenantRepository
	Users       ports.UserRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// CreateTenant provisions a new customer organization. Global admins only.
func (s Service) CreateTenant(ctx context.Context, actor identity.Identity, name string) (entities.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entities.Tenant{}, domainerrors.ErrInvalidTenantName
	}
	if !actor.IsGlobalAdmin() {
		return entities.Tenant{}, domainerrors.ErrForbidden
	}

	id, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Tenant{}, err
	}
	tenant := entities.Tenant{
		ID:        id,
		Name:      name,
		CreatedAt: s.now(),
	}
	if err := s.Tenants.CreateTenant(ctx, tenant); err != nil {
		return entities.Tenant{}, err
	}

	ResolveLogger(s.Logger).Info("tenant created",
		"event", "tenant_created",
		"module", "identity-access/directory-service",
		"layer", "application",
		"tenant_id", tenant.ID,
		"actor_id", actor.UserID,
	)
	return tenant, nil
}

// ListTenants returns every tenant. Global admins only.
func (s Service) ListTenants(ctx context.Context, actor identity.Identity) ([]entities.Tenant, error) {
	if !actor.IsGlobalAdmin() {
		return nil, domainerrors.ErrForbidden
	}
	return s.Tenants.ListTenants(ctx)
}

// GetTenant returns one tenant: global admins may read any, everyone else only
// their own.
func (s Service) GetTenant(ctx context.Context, actor identity.Identity, tenantID string) (entities.Tenant, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return entities.Tenant{}, domainerrors.ErrInvalidRequest
	}
	if !actor.IsGlobalAdmin() && actor.TenantID != tenantID {
		return entities.Tenant{}, domainerrors.ErrForbidden
	}
	return s.Tenants.GetTenant(ctx, tenantID)
}

// ListAssignableUsers returns the actor's tenant's users, excluding the actor
// and global admin accounts. This backs the assignee picker for project
// membership.
func (s Service) ListAssignableUsers(ctx context.Context, actor identity.Identity) ([]entities.User, error) {
	return s.Users.ListUsers(ctx, ports.UserFilter{
		TenantID:            actor.TenantID,
		ExcludeUserID:       actor.UserID,
		ExcludeGlobalAdmins: true,
	})
}

// GetMe returns the caller's stored profile.
func (s Service) GetMe(ctx context.Context, actor identity.Identity) (entities.User, error) {
	return s.Users.GetUser(ctx, actor.UserID)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
