package entities

import "time"

// Tenant is an isolated customer organization ("client" on the wire). Every
// user and project belongs to exactly one. Tenants are never deleted here.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
