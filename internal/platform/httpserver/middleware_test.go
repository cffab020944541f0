package httpserver

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	directoryservice "foreman/contexts/identity-access/directory-service"
	projectservice "foreman/contexts/project-management/project-service"
	"foreman/internal/platform/auth"
)

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	server := New(
		projectservice.NewInMemoryModule(slog.Default()),
		directoryservice.NewInMemoryModule(slog.Default()),
		Options{
			Addr:           ":0",
			Verifier:       auth.NewVerifier(testSecret),
			RateLimitRPS:   1,
			RateLimitBurst: 2,
			Logger:         slog.Default(),
		},
	)

	var limited bool
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rr := httptest.NewRecorder()
		server.Handler().ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatalf("expected burst overflow to be rate limited")
	}

	// A different client IP has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.RemoteAddr = "10.0.0.2:12345"
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	if rr.Code == http.StatusTooManyRequests {
		t.Fatalf("expected fresh ip to pass the limiter, got %d", rr.Code)
	}
}

func TestClientIPUsesFirstForwardedElement(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.RemoteAddr = "10.0.0.9:12345"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1, 10.0.0.2")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Fatalf("expected first chain element, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "  ,")
	if got := clientIP(req); got != "10.0.0.9" {
		t.Fatalf("expected remote addr fallback for blank header, got %q", got)
	}
}

func TestRateLimitKeysOnClientNotProxyChain(t *testing.T) {
	server := New(
		projectservice.NewInMemoryModule(slog.Default()),
		directoryservice.NewInMemoryModule(slog.Default()),
		Options{
			Addr:           ":0",
			Verifier:       auth.NewVerifier(testSecret),
			RateLimitRPS:   1,
			RateLimitBurst: 1,
			Logger:         slog.Default(),
		},
	)

	var limited bool
	for i, chain := range []string{
		"203.0.113.7, 10.0.0.1",
		"203.0.113.7, 10.0.0.2",
		"203.0.113.7, 10.0.0.3",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.RemoteAddr = "10.0.0.9:12345"
		req.Header.Set("X-Forwarded-For", chain)
		rr := httptest.NewRecorder()
		server.Handler().ServeHTTP(rr, req)
		if i > 0 && rr.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Fatalf("expected varying proxy chains to share one bucket")
	}
}

func TestRouteLabelCollapsesIDs(t *testing.T) {
	cases := map[string]string{
		"/api/projects":               "/api/projects",
		"/api/projects/p-123":         "/api/projects/:id",
		"/api/projects/p-123/users":   "/api/projects/:id/users",
		"/api/projects/p-1/users/u-2": "/api/projects/:id/users/:id",
		"/api/clients/c-9":            "/api/clients/:id",
		"/api/me":                     "/api/me",
		"/metrics":                    "/metrics",
	}
	for path, want := range cases {
		if got := routeLabel(path); got != want {
			t.Fatalf("routeLabel(%q) = %q, want %q", path, got, want)
		}
	}
}
