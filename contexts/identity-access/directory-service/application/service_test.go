package application

import (
	"context"
	"errors"
	"testing"

	"foreman/contexts/identity-access/directory-service/adapters/memory"
	"foreman/contexts/identity-access/directory-service/domain/entities"
	domainerrors "foreman/contexts/identity-access/directory-service/domain/errors"
	"foreman/internal/shared/identity"
)

func newTestService() (Service, *memory.Store) {
	store := memory.NewStore()
	return Service{
		Tenants:     store,
		Users:       store,
		Clock:       store,
		IDGenerator: store,
	}, store
}

func TestCreateTenantIsAdminOnly(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.CreateTenant(ctx, identity.Identity{UserID: "u1", TenantID: "t1", GlobalRole: identity.GlobalRoleMember}, "Acme")
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for member, got %v", err)
	}

	tenant, err := service.CreateTenant(ctx, identity.Identity{UserID: "a1", GlobalRole: identity.GlobalRoleAdmin}, "  Acme  ")
	if err != nil {
		t.Fatalf("admin create failed: %v", err)
	}
	if tenant.Name != "Acme" || tenant.ID == "" {
		t.Fatalf("unexpected tenant: %+v", tenant)
	}
}

func TestCreateTenantRejectsBlankName(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateTenant(context.Background(), identity.Identity{UserID: "a1", GlobalRole: identity.GlobalRoleAdmin}, "   ")
	if !errors.Is(err, domainerrors.ErrInvalidTenantName) {
		t.Fatalf("expected invalid name, got %v", err)
	}
}

func TestListTenantsIsAdminOnly(t *testing.T) {
	service, _ := newTestService()
	admin := identity.Identity{UserID: "a1", GlobalRole: identity.GlobalRoleAdmin}
	ctx := context.Background()

	if _, err := service.CreateTenant(ctx, admin, "One"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := service.CreateTenant(ctx, admin, "Two"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tenants, err := service.ListTenants(ctx, admin)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tenants) != 2 {
		t.Fatalf("expected 2 tenants, got %d", len(tenants))
	}

	_, err = service.ListTenants(ctx, identity.Identity{UserID: "u1", TenantID: "t1", GlobalRole: identity.GlobalRoleMember})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestGetTenantAllowsOwnTenantOnly(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	admin := identity.Identity{UserID: "a1", GlobalRole: identity.GlobalRoleAdmin}
	tenant, err := service.CreateTenant(ctx, admin, "Acme")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := service.GetTenant(ctx, identity.Identity{UserID: "u1", TenantID: tenant.ID, GlobalRole: identity.GlobalRoleMember}, tenant.ID); err != nil {
		t.Fatalf("own tenant read failed: %v", err)
	}
	_, err = service.GetTenant(ctx, identity.Identity{UserID: "u2", TenantID: "other", GlobalRole: identity.GlobalRoleMember}, tenant.ID)
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for foreign tenant, got %v", err)
	}
	if _, err := service.GetTenant(ctx, admin, tenant.ID); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	_, err = service.GetTenant(ctx, admin, "missing")
	if !errors.Is(err, domainerrors.ErrTenantNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListAssignableUsersExcludesSelfAndAdmins(t *testing.T) {
	service, store := newTestService()
	store.SeedUser(entities.User{ID: "me", Email: "me@acme.test", TenantID: "t1", GlobalRole: identity.GlobalRoleMember})
	store.SeedUser(entities.User{ID: "peer", Email: "peer@acme.test", TenantID: "t1", GlobalRole: identity.GlobalRoleMember})
	store.SeedUser(entities.User{ID: "boss", Email: "boss@acme.test", TenantID: "t1", GlobalRole: identity.GlobalRoleAdmin})
	store.SeedUser(entities.User{ID: "stranger", Email: "x@other.test", TenantID: "t2", GlobalRole: identity.GlobalRoleMember})

	users, err := service.ListAssignableUsers(context.Background(), identity.Identity{UserID: "me", TenantID: "t1", GlobalRole: identity.GlobalRoleMember})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 1 || users[0].ID != "peer" {
		t.Fatalf("expected only the peer, got %+v", users)
	}
}

func TestGetMeReturnsStoredProfile(t *testing.T) {
	service, store := newTestService()
	store.SeedUser(entities.User{ID: "me", Email: "me@acme.test", TenantID: "t1", GlobalRole: identity.GlobalRoleMember})

	user, err := service.GetMe(context.Background(), identity.Identity{UserID: "me", TenantID: "t1", GlobalRole: identity.GlobalRoleMember})
	if err != nil {
		t.Fatalf("get me failed: %v", err)
	}
	if user.Email != "me@acme.test" {
		t.Fatalf("unexpected profile: %+v", user)
	}

	_, err = service.GetMe(context.Background(), identity.Identity{UserID: "ghost", TenantID: "t1", GlobalRole: identity.GlobalRoleMember})
	if !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}
