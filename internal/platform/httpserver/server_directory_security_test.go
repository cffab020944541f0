package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"foreman/contexts/identity-access/directory-service/domain/entities"
	"foreman/internal/shared/identity"
)

func TestClientRoutesRequireBearerToken(t *testing.T) {
	env := newTestEnv()

	rr := env.do(t, http.MethodGet, "/api/clients", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateClientIsAdminOnly(t *testing.T) {
	env := newTestEnv()

	memberToken := env.token(t, memberIdentity("user-1", "t1"))
	rr := env.do(t, http.MethodPost, "/api/clients", memberToken, map[string]string{"name": "Acme"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %d body=%s", rr.Code, rr.Body.String())
	}

	adminToken := env.token(t, adminIdentity(""))
	rr = env.do(t, http.MethodPost, "/api/clients", adminToken, map[string]string{"name": "Acme"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Client  struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"client"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Client.Name != "Acme" || resp.Client.ID == "" {
		t.Fatalf("unexpected response: %s", rr.Body.String())
	}
}

func TestGetClientOwnTenantOnly(t *testing.T) {
	env := newTestEnv()
	adminToken := env.token(t, adminIdentity(""))

	rr := env.do(t, http.MethodPost, "/api/clients", adminToken, map[string]string{"name": "Acme"})
	var created struct {
		Client struct {
			ID string `json:"id"`
		} `json:"client"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	ownToken := env.token(t, memberIdentity("user-1", created.Client.ID))
	rr = env.do(t, http.MethodGet, "/api/clients/"+created.Client.ID, ownToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for own tenant, got %d body=%s", rr.Code, rr.Body.String())
	}

	foreignToken := env.token(t, memberIdentity("user-2", "other"))
	rr = env.do(t, http.MethodGet, "/api/clients/"+created.Client.ID, foreignToken, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign tenant, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUserListScopedToCallerTenant(t *testing.T) {
	env := newTestEnv()
	env.directory.Store.SeedUser(entities.User{ID: "me", Email: "me@acme.test", TenantID: "t1", GlobalRole: identity.GlobalRoleMember})
	env.directory.Store.SeedUser(entities.User{ID: "peer", Email: "peer@acme.test", TenantID: "t1", GlobalRole: identity.GlobalRoleMember})
	env.directory.Store.SeedUser(entities.User{ID: "stranger", Email: "s@other.test", TenantID: "t2", GlobalRole: identity.GlobalRoleMember})

	token := env.token(t, memberIdentity("me", "t1"))
	rr := env.do(t, http.MethodGet, "/api/user/list", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Users []struct {
			ID string `json:"id"`
		} `json:"users"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || len(resp.Users) != 1 || resp.Users[0].ID != "peer" {
		t.Fatalf("expected only the tenant peer, got %s", rr.Body.String())
	}
}

func TestGetMeReturnsProfile(t *testing.T) {
	env := newTestEnv()
	env.directory.Store.SeedUser(entities.User{ID: "me", Email: "me@acme.test", TenantID: "t1", GlobalRole: identity.GlobalRoleMember})

	token := env.token(t, memberIdentity("me", "t1"))
	rr := env.do(t, http.MethodGet, "/api/me", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		ClientID string `json:"client_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Email != "me@acme.test" || resp.ClientID != "t1" || resp.Role != "member" {
		t.Fatalf("unexpected profile: %s", rr.Body.String())
	}
}
