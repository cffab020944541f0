package entities

import (
	"time"

	"foreman/internal/shared/identity"
)

// User is an account provisioned by the external identity provider. This
// context only reads user records; PasswordHash is opaque and never surfaced.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	GlobalRole   identity.GlobalRole
	TenantID     string
	CreatedAt    time.Time
}
