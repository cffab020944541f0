package entities

import "time"

// Project belongs to exactly one tenant for its whole lifetime. TenantID is set
// from the creator's identity and never changes afterwards.
type Project struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
