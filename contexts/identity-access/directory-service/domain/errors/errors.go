package errors

import "errors"

var (
	ErrInvalidTenantName = errors.New("tenant name is required")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrTenantNotFound    = errors.New("client company not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrForbidden         = errors.New("only a global admin can perform this action")
)
