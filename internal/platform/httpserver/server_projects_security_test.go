package httpserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	directoryservice "foreman/contexts/identity-access/directory-service"
	projectservice "foreman/contexts/project-management/project-service"
	projectports "foreman/contexts/project-management/project-service/ports"
	"foreman/internal/platform/auth"
	"foreman/internal/shared/identity"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

type testEnv struct {
	server    *Server
	projects  projectservice.Module
	directory directoryservice.Module
	verifier  auth.Verifier
}

func newTestEnv() *testEnv {
	projects := projectservice.NewInMemoryModule(slog.Default())
	directory := directoryservice.NewInMemoryModule(slog.Default())
	verifier := auth.NewVerifier(testSecret)
	server := New(projects, directory, Options{
		Addr:     ":0",
		Verifier: verifier,
		Logger:   slog.Default(),
	})
	return &testEnv{
		server:    server,
		projects:  projects,
		directory: directory,
		verifier:  verifier,
	}
}

func (e *testEnv) token(t *testing.T, actor identity.Identity) string {
	t.Helper()
	token, err := e.verifier.Sign(actor, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.server.mux.ServeHTTP(rr, req)
	return rr
}

func adminIdentity(tenantID string) identity.Identity {
	return identity.Identity{UserID: "admin-1", TenantID: tenantID, GlobalRole: identity.GlobalRoleAdmin}
}

func memberIdentity(userID, tenantID string) identity.Identity {
	return identity.Identity{UserID: userID, TenantID: tenantID, GlobalRole: identity.GlobalRoleMember}
}

func TestProjectRoutesRequireBearerToken(t *testing.T) {
	env := newTestEnv()

	rr := env.do(t, http.MethodGet, "/api/projects", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, "/api/projects", "not-a-jwt", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestProjectRoutesRejectExpiredToken(t *testing.T) {
	env := newTestEnv()
	token, err := env.verifier.Sign(adminIdentity("t1"), jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rr := env.do(t, http.MethodGet, "/api/projects", token, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rr.Code)
	}
}

func TestCreateProjectHappyPath(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, adminIdentity("t1"))

	rr := env.do(t, http.MethodPost, "/api/projects", token, map[string]string{
		"name":        "Launch",
		"description": "Q3 launch",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Project struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"project"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Project created successfully" || resp.Project.ID == "" {
		t.Fatalf("unexpected response: %s", rr.Body.String())
	}
}

func TestCreateProjectBlankNameIs400(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, adminIdentity("t1"))

	rr := env.do(t, http.MethodPost, "/api/projects", token, map[string]string{"name": "  "})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateProjectForbiddenForPlainMember(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, memberIdentity("user-1", "t1"))

	rr := env.do(t, http.MethodPost, "/api/projects", token, map[string]string{"name": "Denied"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGetProjectCrossTenantIs403(t *testing.T) {
	env := newTestEnv()
	adminToken := env.token(t, adminIdentity("t1"))

	rr := env.do(t, http.MethodPost, "/api/projects", adminToken, map[string]string{"name": "Secret"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("seed project failed: %d", rr.Code)
	}
	var created struct {
		Project struct {
			ID string `json:"id"`
		} `json:"project"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	foreignToken := env.token(t, memberIdentity("user-9", "t2"))
	rr = env.do(t, http.MethodGet, "/api/projects/"+created.Project.ID, foreignToken, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-tenant read, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGetProjectUnknownIs404(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, adminIdentity("t1"))

	rr := env.do(t, http.MethodGet, "/api/projects/missing", token, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAssignUserDuplicateIs409(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, adminIdentity("t1"))
	env.projects.Store.SeedUser(projectports.AssigneeRef{UserID: "user-1", TenantID: "t1", Email: "user-1@acme.test"})

	rr := env.do(t, http.MethodPost, "/api/projects", token, map[string]string{"name": "P"})
	var created struct {
		Project struct {
			ID string `json:"id"`
		} `json:"project"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	assign := map[string]string{"user_id": "user-1", "role": "viewer"}
	rr = env.do(t, http.MethodPost, "/api/projects/"+created.Project.ID+"/users", token, assign)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first assign, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = env.do(t, http.MethodPost, "/api/projects/"+created.Project.ID+"/users", token, assign)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate assign, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAssignUserInvalidRoleIs400(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, adminIdentity("t1"))

	rr := env.do(t, http.MethodPost, "/api/projects/any/users", token, map[string]string{"user_id": "u", "role": "manager"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid role, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestListProjectsRejectsNonNumericPagination(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, adminIdentity("t1"))

	rr := env.do(t, http.MethodGet, "/api/projects?page=abc", token, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}
