package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	directoryerrors "foreman/contexts/identity-access/directory-service/domain/errors"
	directoryhttp "foreman/contexts/identity-access/directory-service/transport/http"
)

// handleCreateClient godoc
//
//	@Summary	Create a client company (global admins only)
//	@Tags		clients
//	@Accept		json
//	@Produce	json
//	@Param		request	body		httptransport.CreateClientRequest	true	"client payload"
//	@Success	201		{object}	httptransport.CreateClientResponse
//	@Security	BearerAuth
//	@Router		/api/clients [post]
func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var req directoryhttp.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.directory.Handler.CreateClientHandler(r.Context(), actor, req)
	if err != nil {
		writeDirectoryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleListClients godoc
//
//	@Summary	List client companies (global admins only)
//	@Tags		clients
//	@Produce	json
//	@Success	200	{object}	httptransport.ListClientsResponse
//	@Security	BearerAuth
//	@Router		/api/clients [get]
func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	resp, err := s.directory.Handler.ListClientsHandler(r.Context(), actor)
	if err != nil {
		writeDirectoryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetClient godoc
//
//	@Summary	Get a client company
//	@Tags		clients
//	@Produce	json
//	@Param		client_id	path		string	true	"client id"
//	@Success	200			{object}	httptransport.ClientResponse
//	@Security	BearerAuth
//	@Router		/api/clients/{client_id} [get]
func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	resp, err := s.directory.Handler.GetClientHandler(r.Context(), actor, r.PathValue("client_id"))
	if err != nil {
		writeDirectoryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListUsers godoc
//
//	@Summary	List assignable users in the caller's tenant
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	httptransport.ListUsersResponse
//	@Security	BearerAuth
//	@Router		/api/user/list [get]
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	resp, err := s.directory.Handler.ListUsersHandler(r.Context(), actor)
	if err != nil {
		writeDirectoryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetMe godoc
//
//	@Summary	Get the caller's profile
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	httptransport.MeResponse
//	@Security	BearerAuth
//	@Router		/api/me [get]
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	resp, err := s.directory.Handler.GetMeHandler(r.Context(), actor)
	if err != nil {
		writeDirectoryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeDirectoryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directoryerrors.ErrInvalidTenantName),
		errors.Is(err, directoryerrors.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, directoryerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, directoryerrors.ErrTenantNotFound),
		errors.Is(err, directoryerrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
