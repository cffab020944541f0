// Package auth verifies bearer tokens issued by the external identity
// provider and turns them into identities the application layers trust.
package auth

import (
	"errors"
	"strings"

	"foreman/internal/shared/identity"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("authorization token is required")
	ErrInvalidToken = errors.New("authorization token is invalid or expired")
)

// Claims is the token payload contract shared with the identity provider.
type Claims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) Verifier {
	return Verifier{secret: []byte(secret)}
}

// IdentityFromHeader extracts and verifies a "Bearer <token>" Authorization
// header value.
func (v Verifier) IdentityFromHeader(header string) (identity.Identity, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return identity.Identity{}, ErrMissingToken
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return identity.Identity{}, ErrInvalidToken
	}
	return v.Verify(strings.TrimSpace(token))
}

// Verify parses and validates a raw token string.
func (v Verifier) Verify(tokenString string) (identity.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return identity.Identity{}, ErrInvalidToken
	}

	role := identity.GlobalRole(strings.ToLower(strings.TrimSpace(claims.Role)))
	if claims.UserID == "" || !role.Valid() {
		return identity.Identity{}, ErrInvalidToken
	}
	return identity.Identity{
		UserID:     claims.UserID,
		TenantID:   claims.TenantID,
		GlobalRole: role,
	}, nil
}

// Sign issues a token for the given identity. Used by tests and local
// tooling; production tokens come from the identity provider.
func (v Verifier) Sign(actor identity.Identity, registered jwt.RegisteredClaims) (string, error) {
	claims := Claims{
		UserID:           actor.UserID,
		TenantID:         actor.TenantID,
		Role:             string(actor.GlobalRole),
		RegisteredClaims: registered,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
