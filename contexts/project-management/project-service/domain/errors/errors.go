package errors

import "errors"

var (
	ErrInvalidProjectName  = errors.New("project name is required")
	ErrInvalidRole         = errors.New("role must be one of owner, developer, viewer")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrEmptyUpdate         = errors.New("provide at least one field to update (name or description)")
	ErrProjectNotFound     = errors.New("project not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrMembershipNotFound  = errors.New("user is not assigned to this project")
	ErrAlreadyAssigned     = errors.New("user is already assigned to this project")
	ErrForbidden           = errors.New("only a global admin or project owner can perform this action")
	ErrTenantMismatch      = errors.New("not allowed to access this project")
	ErrCrossTenantAssignee = errors.New("user does not belong to the project's tenant")
)
