package rbac

import (
	"context"
	"errors"
	"slices"
)

// Capabilities returns the capability set owned by the role.
// Roles outside the enumeration own the empty set.
func Capabilities(role Role) CapabilitySet {
	return roleCapabilities[role]
}

// HasPermission reports whether role satisfies a requirement expressed as a
// role set. A role holding CapAll satisfies any requirement; otherwise the
// role must be a member of required. An empty requirement is always met by
// a valid role. The empty role (no user) never satisfies anything.
func HasPermission(role Role, required ...Role) bool {
	if role == "" {
		return false
	}
	if Capabilities(role).Has(CapAll) {
		return true
	}
	if len(required) == 0 {
		return role.Valid()
	}
	return slices.Contains(required, role)
}

// Can reports whether role holds the capability, directly or through CapAll.
func Can(role Role, c Capability) bool {
	caps := Capabilities(role)
	return caps.Has(CapAll) || caps.Has(c)
}

// CanFromContext checks a capability for the role stored in ctx.
func CanFromContext(ctx context.Context, c Capability) error {
	role, ok := GetRoleFromContext(ctx)
	if !ok {
		return errors.Join(ErrRoleNotInContext, ErrInsufficientPermissions)
	}
	if !Can(role, c) {
		return ErrInsufficientPermissions
	}
	return nil
}
