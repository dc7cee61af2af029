package rbac

import "errors"

var (
	// ErrUnknownPermission indicates a role definition referenced a token
	// outside the permission universe.
	ErrUnknownPermission = errors.New("rbac: unknown permission")

	// ErrUnknownRole indicates an assignment referenced an undefined role.
	ErrUnknownRole = errors.New("rbac: unknown role")
)
