package httpadapter

import (
	"context"
	"log/slog"

	"foreman/contexts/project-management/project-service/application"
	"foreman/contexts/project-management/project-service/domain/entities"
	httptransport "foreman/contexts/project-management/project-service/transport/http"
	"foreman/internal/shared/identity"
)

// Handler maps HTTP DTOs to application calls. Authentication happens in the
// platform layer; by the time a method runs, actor is a verified identity.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateProjectHandler(
	ctx context.Context,
	actor identity.Identity,
	request httptransport.CreateProjectRequest,
) (httptransport.CreateProjectResponse, error) {
	project, err := h.Service.CreateProject(ctx, actor, application.CreateProjectInput{
		Name:        request.Name,
		Description: request.Description,
	})
	if err != nil {
		h.logError("project_http_create_failed", actor, err)
		return httptransport.CreateProjectResponse{}, err
	}
	return httptransport.CreateProjectResponse{
		Message: "Project created successfully",
		Project: projectDTO(project),
	}, nil
}

func (h Handler) ListProjectsHandler(
	ctx context.Context,
	actor identity.Identity,
	page, limit int,
	search string,
) (httptransport.ListProjectsResponse, error) {
	result, err := h.Service.ListProjects(ctx, actor, page, limit, search)
	if err != nil {
		h.logError("project_http_list_failed", actor, err)
		return httptransport.ListProjectsResponse{}, err
	}

	items := make([]httptransport.ProjectDTO, 0, len(result.Items))
	for _, project := range result.Items {
		items = append(items, projectDTO(project))
	}
	return httptransport.ListProjectsResponse{
		Projects:   items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
		HasNext:    result.HasNext,
		HasPrev:    result.HasPrev,
	}, nil
}

func (h Handler) GetProjectHandler(
	ctx context.Context,
	actor identity.Identity,
	projectID string,
) (httptransport.ProjectDetailResponse, error) {
	detail, err := h.Service.GetProject(ctx, actor, projectID)
	if err != nil {
		h.logError("project_http_get_failed", actor, err)
		return httptransport.ProjectDetailResponse{}, err
	}

	assigned := make([]httptransport.AssignedUserDTO, 0, len(detail.Members))
	for _, member := range detail.Members {
		assigned = append(assigned, httptransport.AssignedUserDTO{
			ID:    member.UserID,
			Email: member.Email,
			Role:  string(member.Role),
		})
	}
	return httptransport.ProjectDetailResponse{
		ID:            detail.Project.ID,
		Name:          detail.Project.Name,
		Description:   detail.Project.Description,
		AssignedUsers: assigned,
		CreatedAt:     detail.Project.CreatedAt,
		UpdatedAt:     detail.Project.UpdatedAt,
	}, nil
}

func (h Handler) UpdateProjectHandler(
	ctx context.Context,
	actor identity.Identity,
	projectID string,
	request httptransport.UpdateProjectRequest,
) (httptransport.UpdateProjectResponse, error) {
	project, err := h.Service.UpdateProject(ctx, actor, projectID, application.UpdateProjectInput{
		Name:        request.Name,
		Description: request.Description,
	})
	if err != nil {
		h.logError("project_http_update_failed", actor, err)
		return httptransport.UpdateProjectResponse{}, err
	}
	return httptransport.UpdateProjectResponse{
		Message: "Project updated successfully",
		Project: projectDTO(project),
	}, nil
}

func (h Handler) DeleteProjectHandler(
	ctx context.Context,
	actor identity.Identity,
	projectID string,
) (httptransport.MessageResponse, error) {
	if err := h.Service.DeleteProject(ctx, actor, projectID); err != nil {
		h.logError("project_http_delete_failed", actor, err)
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: "Project deleted successfully"}, nil
}

func (h Handler) AssignUserHandler(
	ctx context.Context,
	actor identity.Identity,
	projectID string,
	request httptransport.AssignUserRequest,
) (httptransport.AssignUserResponse, error) {
	membership, err := h.Service.AssignUser(ctx, actor, projectID, application.AssignUserInput{
		UserID: request.UserID,
		Role:   request.Role,
	})
	if err != nil {
		h.logError("project_http_assign_failed", actor, err)
		return httptransport.AssignUserResponse{}, err
	}
	return httptransport.AssignUserResponse{
		Message:    "User assigned to project successfully",
		Assignment: membershipDTO(membership),
	}, nil
}

func (h Handler) UpdateMemberRoleHandler(
	ctx context.Context,
	actor identity.Identity,
	projectID, userID string,
	request httptransport.UpdateMemberRoleRequest,
) (httptransport.UpdateMemberRoleResponse, error) {
	membership, err := h.Service.UpdateUserRole(ctx, actor, projectID, userID, request.Role)
	if err != nil {
		h.logError("project_http_update_role_failed", actor, err)
		return httptransport.UpdateMemberRoleResponse{}, err
	}
	return httptransport.UpdateMemberRoleResponse{
		Message:    "Project user role updated successfully",
		Assignment: membershipDTO(membership),
	}, nil
}

func (h Handler) RemoveUserHandler(
	ctx context.Context,
	actor identity.Identity,
	projectID, userID string,
) (httptransport.MessageResponse, error) {
	if err := h.Service.RemoveUser(ctx, actor, projectID, userID); err != nil {
		h.logError("project_http_remove_failed", actor, err)
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: "User removed from project successfully"}, nil
}

func (h Handler) GetAssignedUsersHandler(
	ctx context.Context,
	actor identity.Identity,
	projectID string,
) (httptransport.AssignedUsersResponse, error) {
	list, err := h.Service.GetAssignedUsers(ctx, actor, projectID)
	if err != nil {
		h.logError("project_http_members_failed", actor, err)
		return httptransport.AssignedUsersResponse{}, err
	}

	users := make([]httptransport.MemberEntryDTO, 0, len(list.Members))
	for _, member := range list.Members {
		users = append(users, httptransport.MemberEntryDTO{
			ID:   member.MembershipID,
			Role: string(member.Role),
			User: httptransport.UserRefDTO{
				ID:    member.UserID,
				Email: member.Email,
			},
		})
	}
	return httptransport.AssignedUsersResponse{
		Users: users,
		Count: list.Count,
	}, nil
}

func (h Handler) logError(event string, actor identity.Identity, err error) {
	application.ResolveLogger(h.Logger).Debug("project request rejected",
		"event", event,
		"module", "project-management/project-service",
		"layer", "transport",
		"actor_id", actor.UserID,
		"tenant_id", actor.TenantID,
		"error", err.Error(),
	)
}

func projectDTO(project entities.Project) httptransport.ProjectDTO {
	return httptransport.ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func membershipDTO(membership entities.Membership) httptransport.MembershipDTO {
	return httptransport.MembershipDTO{
		ID:        membership.ID,
		ProjectID: membership.ProjectID,
		UserID:    membership.UserID,
		Role:      string(membership.Role),
		CreatedAt: membership.CreatedAt,
	}
}
