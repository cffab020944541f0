package httptransport

import "time"

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateProjectRequest is a partial update; blank fields are left untouched.
type UpdateProjectRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type AssignUserRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

type ProjectDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AssignedUserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type MembershipDTO struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateProjectResponse struct {
	Message string     `json:"message"`
	Project ProjectDTO `json:"project"`
}

type ProjectDetailResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	AssignedUsers []AssignedUserDTO `json:"assigned_users"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type ListProjectsResponse struct {
	Projects   []ProjectDTO `json:"projects"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
	HasNext    bool         `json:"has_next"`
	HasPrev    bool         `json:"has_prev"`
}

type UpdateProjectResponse struct {
	Message string     `json:"message"`
	Project ProjectDTO `json:"project"`
}

type AssignUserResponse struct {
	Message    string        `json:"message"`
	Assignment MembershipDTO `json:"assignment"`
}

type UpdateMemberRoleResponse struct {
	Message    string        `json:"message"`
	Assignment MembershipDTO `json:"assignment"`
}

type UserRefDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type MemberEntryDTO struct {
	ID   string     `json:"id"`
	Role string     `json:"role"`
	User UserRefDTO `json:"user"`
}

type AssignedUsersResponse struct {
	Users []MemberEntryDTO `json:"users"`
	Count int              `json:"count"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
