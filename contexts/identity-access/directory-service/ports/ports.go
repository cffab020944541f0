package ports

import (
	"context"
	"time"

	"foreman/contexts/identity-access/directory-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for new tenants.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type TenantRepository interface {
	CreateTenant(ctx context.Context, tenant entities.Tenant) error
	GetTenant(ctx context.Context, tenantID string) (entities.Tenant, error)
	ListTenants(ctx context.Context) ([]entities.Tenant, error)
}

// UserFilter narrows ListUsers. ExcludeUserID drops the caller from assignable
// listings; ExcludeGlobalAdmins drops admin accounts the way the original
// directory listing did.
type UserFilter struct {
	TenantID            string
	ExcludeUserID       string
	ExcludeGlobalAdmins bool
}

// UserRepository reads user records owned by the identity provider.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (entities.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]entities.User, error)
}
