package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"foreman/contexts/identity-access/directory-service/domain/entities"
	domainerrors "foreman/contexts/identity-access/directory-service/domain/errors"
	"foreman/contexts/identity-access/directory-service/ports"
	"foreman/internal/shared/identity"

	"github.com/google/uuid"
)

// Store is an in-memory adapter for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	tenants map[string]entities.Tenant
	users   map[string]entities.User
}

func NewStore() *Store {
	return &Store{
		tenants: make(map[string]entities.Tenant),
		users:   make(map[string]entities.User),
	}
}

// SeedUser registers a user record. Provisioning belongs to the identity
// provider; tests and dev wiring seed records through this.
func (s *Store) SeedUser(user entities.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *Store) CreateTenant(_ context.Context, tenant entities.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[tenant.ID] = tenant
	return nil
}

func (s *Store) GetTenant(_ context.Context, tenantID string) (entities.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenant, ok := s.tenants[tenantID]
	if !ok {
		return entities.Tenant{}, domainerrors.ErrTenantNotFound
	}
	return tenant, nil
}

func (s *Store) ListTenants(_ context.Context) ([]entities.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Tenant, 0, len(s.tenants))
	for _, tenant := range s.tenants {
		items = append(items, tenant)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) GetUser(_ context.Context, userID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) ListUsers(_ context.Context, filter ports.UserFilter) ([]entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.User, 0)
	for _, user := range s.users {
		if user.TenantID != filter.TenantID {
			continue
		}
		if filter.ExcludeUserID != "" && user.ID == filter.ExcludeUserID {
			continue
		}
		if filter.ExcludeGlobalAdmins && user.GlobalRole == identity.GlobalRoleAdmin {
			continue
		}
		items = append(items, user)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Email < items[j].Email
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
