package httpadapter

import (
	"context"
	"log/slog"

	"foreman/contexts/identity-access/directory-service/application"
	"foreman/contexts/identity-access/directory-service/domain/entities"
	httptransport "foreman/contexts/identity-access/directory-service/transport/http"
	"foreman/internal/shared/identity"
)

// Handler maps HTTP DTOs to application calls. Authentication happens in the
// platform layer; by the time a method runs, actor is a verified identity.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateClientHandler(
	ctx context.Context,
	actor identity.Identity,
	request httptransport.CreateClientRequest,
) (httptransport.CreateClientResponse, error) {
	tenant, err := h.Service.CreateTenant(ctx, actor, request.Name)
	if err != nil {
		h.logError("directory_http_create_client_failed", actor, err)
		return httptransport.CreateClientResponse{}, err
	}
	return httptransport.CreateClientResponse{
		Message: "Client company created successfully",
		Client:  clientDTO(tenant),
	}, nil
}

func (h Handler) ListClientsHandler(
	ctx context.Context,
	actor identity.Identity,
) (httptransport.ListClientsResponse, error) {
	tenants, err := h.Service.ListTenants(ctx, actor)
	if err != nil {
		h.logError("directory_http_list_clients_failed", actor, err)
		return httptransport.ListClientsResponse{}, err
	}

	clients := make([]httptransport.ClientDTO, 0, len(tenants))
	for _, tenant := range tenants {
		clients = append(clients, clientDTO(tenant))
	}
	return httptransport.ListClientsResponse{
		Clients: clients,
		Count:   len(clients),
	}, nil
}

func (h Handler) GetClientHandler(
	ctx context.Context,
	actor identity.Identity,
	clientID string,
) (httptransport.ClientResponse, error) {
	tenant, err := h.Service.GetTenant(ctx, actor, clientID)
	if err != nil {
		h.logError("directory_http_get_client_failed", actor, err)
		return httptransport.ClientResponse{}, err
	}
	return httptransport.ClientResponse{Client: clientDTO(tenant)}, nil
}

func (h Handler) ListUsersHandler(
	ctx context.Context,
	actor identity.Identity,
) (httptransport.ListUsersResponse, error) {
	users, err := h.Service.ListAssignableUsers(ctx, actor)
	if err != nil {
		h.logError("directory_http_list_users_failed", actor, err)
		return httptransport.ListUsersResponse{}, err
	}

	items := make([]httptransport.DirectoryUserDTO, 0, len(users))
	for _, user := range users {
		items = append(items, httptransport.DirectoryUserDTO{
			ID:    user.ID,
			Email: user.Email,
		})
	}
	return httptransport.ListUsersResponse{
		Users: items,
		Count: len(items),
	}, nil
}

func (h Handler) GetMeHandler(
	ctx context.Context,
	actor identity.Identity,
) (httptransport.MeResponse, error) {
	user, err := h.Service.GetMe(ctx, actor)
	if err != nil {
		h.logError("directory_http_me_failed", actor, err)
		return httptransport.MeResponse{}, err
	}
	return httptransport.MeResponse{
		ID:       user.ID,
		Email:    user.Email,
		Role:     string(user.GlobalRole),
		ClientID: user.TenantID,
	}, nil
}

func (h Handler) logError(event string, actor identity.Identity, err error) {
	application.ResolveLogger(h.Logger).Debug("directory request rejected",
		"event", event,
		"module", "identity-access/directory-service",
		"layer", "transport",
		"actor_id", actor.UserID,
		"tenant_id", actor.TenantID,
		"error", err.Error(),
	)
}

func clientDTO(tenant entities.Tenant) httptransport.ClientDTO {
	return httptransport.ClientDTO{
		ID:        tenant.ID,
		Name:      tenant.Name,
		CreatedAt: tenant.CreatedAt,
	}
}
