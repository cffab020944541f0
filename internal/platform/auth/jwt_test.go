package auth

import (
	"errors"
	"testing"
	"time"

	"foreman/internal/shared/identity"

	"github.com/golang-jwt/jwt/v5"
)

func TestVerifierRoundTrip(t *testing.T) {
	verifier := NewVerifier("secret")
	actor := identity.Identity{UserID: "u1", TenantID: "t1", GlobalRole: identity.GlobalRoleMember}

	token, err := verifier.Sign(actor, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := verifier.IdentityFromHeader("Bearer " + token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != actor {
		t.Fatalf("expected %+v, got %+v", actor, got)
	}
}

func TestVerifierRejectsMissingAndMalformedHeaders(t *testing.T) {
	verifier := NewVerifier("secret")

	if _, err := verifier.IdentityFromHeader(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token, got %v", err)
	}
	for _, header := range []string{"Bearer", "Basic abc", "Bearer  ", "garbage"} {
		if _, err := verifier.IdentityFromHeader(header); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("header %q: expected invalid token, got %v", header, err)
		}
	}
}

func TestVerifierRejectsWrongSecretAndExpiry(t *testing.T) {
	verifier := NewVerifier("secret")
	actor := identity.Identity{UserID: "u1", TenantID: "t1", GlobalRole: identity.GlobalRoleAdmin}

	foreign, err := NewVerifier("other").Sign(actor, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.Verify(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for wrong secret, got %v", err)
	}

	expired, err := verifier.Sign(actor, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.Verify(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for expired claim, got %v", err)
	}
}

func TestVerifierRejectsUnknownRole(t *testing.T) {
	verifier := NewVerifier("secret")

	token, err := verifier.Sign(identity.Identity{UserID: "u1", TenantID: "t1", GlobalRole: "superuser"}, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for unknown role, got %v", err)
	}
}
