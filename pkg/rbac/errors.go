package rbac

import "errors"

var (
	ErrInvalidRole             = errors.New("rbac.invalid_role")
	ErrInsufficientPermissions = errors.New("rbac.insufficient_permissions")
	// ErrRoleNotInContext is joined with ErrInsufficientPermissions by the
	// context helpers.
	ErrRoleNotInContext = errors.New("rbac.role_not_in_context")
)
