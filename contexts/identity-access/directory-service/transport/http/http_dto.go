// Package httptransport defines the wire DTOs for the directory surface.
// Tenants are called "clients" on the wire; internally they stay tenants.
package httptransport

import "time"

type CreateClientRequest struct {
	Name string `json:"name"`
}

type ClientDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateClientResponse struct {
	Message string    `json:"message"`
	Client  ClientDTO `json:"client"`
}

type ListClientsResponse struct {
	Clients []ClientDTO `json:"clients"`
	Count   int         `json:"count"`
}

type ClientResponse struct {
	Client ClientDTO `json:"client"`
}

type DirectoryUserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type ListUsersResponse struct {
	Users []DirectoryUserDTO `json:"users"`
	Count int                `json:"count"`
}

type MeResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	ClientID string `json:"client_id"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
