package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	projecterrors "foreman/contexts/project-management/project-service/domain/errors"
	projecthttp "foreman/contexts/project-management/project-service/transport/http"
)

// handleCreateProject godoc
//
//	@Summary	Create a project in the caller's tenant
//	@Tags		projects
//	@Accept		json
//	@Produce	json
//	@Param		request	body		httptransport.CreateProjectRequest	true	"project payload"
//	@Success	201		{object}	httptransport.CreateProjectResponse
//	@Security	BearerAuth
//	@Router		/api/projects [post]
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var req projecthttp.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.projects.Handler.CreateProjectHandler(r.Context(), actor, req)
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleListProjects godoc
//
//	@Summary	List the caller's tenant's projects
//	@Tags		projects
//	@Produce	json
//	@Param		page	query		int		false	"page number"
//	@Param		limit	query		int		false	"page size"
//	@Param		search	query		string	false	"name filter"
//	@Success	200		{object}	httptransport.ListProjectsResponse
//	@Security	BearerAuth
//	@Router		/api/projects [get]
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page, okPage := parseOptionalInt(query.Get("page"))
	limit, okLimit := parseOptionalInt(query.Get("limit"))
	if !okPage || !okLimit {
		writeError(w, http.StatusBadRequest, "invalid_pagination", "page and limit must be integers")
		return
	}

	resp, err := s.projects.Handler.ListProjectsHandler(r.Context(), actor, page, limit, query.Get("search"))
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetProject godoc
//
//	@Summary	Get a project with its assigned users
//	@Tags		projects
//	@Produce	json
//	@Param		project_id	path		string	true	"project id"
//	@Success	200			{object}	httptransport.ProjectDetailResponse
//	@Security	BearerAuth
//	@Router		/api/projects/{project_id} [get]
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	resp, err := s.projects.Handler.GetProjectHandler(r.Context(), actor, r.PathValue("project_id"))
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUpdateProject godoc
//
//	@Summary	Partially update a project
//	@Tags		projects
//	@Accept		json
//	@Produce	json
//	@Param		project_id	path		string								true	"project id"
//	@Param		request		body		httptransport.UpdateProjectRequest	true	"fields to update"
//	@Success	200			{object}	httptransport.UpdateProjectResponse
//	@Security	BearerAuth
//	@Router		/api/projects/{project_id} [put]
func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var req projecthttp.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.projects.Handler.UpdateProjectHandler(r.Context(), actor, r.PathValue("project_id"), req)
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDeleteProject godoc
//
//	@Summary	Delete a project and its memberships
//	@Tags		projects
//	@Produce	json
//	@Param		project_id	path		string	true	"project id"
//	@Success	200			{object}	httptransport.MessageResponse
//	@Security	BearerAuth
//	@Router		/api/projects/{project_id} [delete]
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	resp, err := s.projects.Handler.DeleteProjectHandler(r.Context(), actor, r.PathValue("project_id"))
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAssignUser godoc
//
//	@Summary	Assign a user to a project with a role
//	@Tags		projects
//	@Accept		json
//	@Produce	json
//	@Param		project_id	path		string							true	"project id"
//	@Param		request		body		httptransport.AssignUserRequest	true	"user and role"
//	@Success	201			{object}	httptransport.AssignUserResponse
//	@Security	BearerAuth
//	@Router		/api/projects/{project_id}/users [post]
func (s *Server) handleAssignUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var req projecthttp.AssignUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.projects.Handler.AssignUserHandler(r.Context(), actor, r.PathValue("project_id"), req)
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleUpdateMemberRole godoc
//
//	@Summary	Change an assigned user's project role
//	@Tags		projects
//	@Accept		json
//	@Produce	json
//	@Param		project_id	path		string								true	"project id"
//	@Param		user_id		path		string								true	"user id"
//	@Param		request		body		httptransport.UpdateMemberRoleRequest	true	"new role"
//	@Success	200			{object}	httptransport.UpdateMemberRoleResponse
//	@Security	BearerAuth
//	@Router		/api/projects/{project_id}/users/{user_id} [put]
func (s *Server) handleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var req projecthttp.UpdateMemberRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.projects.Handler.UpdateMemberRoleHandler(
		r.Context(),
		actor,
		r.PathValue("project_id"),
		r.PathValue("user_id"),
		req,
	)
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRemoveUser godoc
//
//	@Summary	Remove an assigned user from a project
//	@Tags		projects
//	@Produce	json
//	@Param		project_id	path		string	true	"project id"
//	@Param		user_id		path		string	true	"user id"
//	@Success	200			{object}	httptransport.MessageResponse
//	@Security	BearerAuth
//	@Router		/api/projects/{project_id}/users/{user_id} [delete]
func (s *Server) handleRemoveUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	resp, err := s.projects.Handler.RemoveUserHandler(
		r.Context(),
		actor,
		r.PathValue("project_id"),
		r.PathValue("user_id"),
	)
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetAssignedUsers godoc
//
//	@Summary	List a project's assigned users
//	@Tags		projects
//	@Produce	json
//	@Param		project_id	path		string	true	"project id"
//	@Success	200			{object}	httptransport.AssignedUsersResponse
//	@Security	BearerAuth
//	@Router		/api/projects/{project_id}/users [get]
func (s *Server) handleGetAssignedUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	resp, err := s.projects.Handler.GetAssignedUsersHandler(r.Context(), actor, r.PathValue("project_id"))
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeProjectDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, projecterrors.ErrInvalidProjectName),
		errors.Is(err, projecterrors.ErrInvalidRole),
		errors.Is(err, projecterrors.ErrInvalidRequest),
		errors.Is(err, projecterrors.ErrEmptyUpdate):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, projecterrors.ErrForbidden),
		errors.Is(err, projecterrors.ErrTenantMismatch),
		errors.Is(err, projecterrors.ErrCrossTenantAssignee):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, projecterrors.ErrProjectNotFound),
		errors.Is(err, projecterrors.ErrUserNotFound),
		errors.Is(err, projecterrors.ErrMembershipNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, projecterrors.ErrAlreadyAssigned):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// parseOptionalInt returns 0 for a blank value; the application layer applies
// its own defaults and clamps.
func parseOptionalInt(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
