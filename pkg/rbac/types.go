package rbac

import (
	"slices"
	"strings"
)

// Role is a member of the closed role enumeration.
// Values outside the enumeration are representable (they arrive from the
// server as plain strings) but own no capabilities.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleAnalyst  Role = "analyst"
	RoleEmployee Role = "employee"
)

// roleAliases maps the labels used by the HR backend to the enumeration.
var roleAliases = map[string]Role{
	"administrator": RoleAdmin,
	"administrador": RoleAdmin,
	"gestor":        RoleManager,
	"gerente":       RoleManager,
	"rh":            RoleAnalyst,
	"hr":            RoleAnalyst,
	"analista":      RoleAnalyst,
	"funcionario":   RoleEmployee,
	"user":          RoleEmployee,
	"usuario":       RoleEmployee,
}

// Roles returns every role of the enumeration, most privileged first.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleAnalyst, RoleEmployee}
}

// ParseRole normalizes a role label. Unknown labels are returned lower-cased
// together with ErrInvalidRole so callers may still keep the raw value.
func ParseRole(s string) (Role, error) {
	label := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := roleAliases[label]; ok {
		return alias, nil
	}
	r := Role(label)
	if !r.Valid() {
		return r, ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether the role belongs to the enumeration.
func (r Role) Valid() bool {
	return slices.Contains(Roles(), r)
}

func (r Role) String() string {
	return string(r)
}

// UnmarshalText normalizes the role on decode. Unknown roles are kept as-is.
func (r *Role) UnmarshalText(text []byte) error {
	*r, _ = ParseRole(string(text))
	return nil
}

// Capability is a single grant held by a role.
type Capability uint16

const (
	// CapAll satisfies every role requirement and every capability check.
	CapAll Capability = 1 << iota
	CapViewDashboard
	CapViewRecords
	CapManageEmployees
	CapManageDepartments
	CapManagePositions
	CapManageMovements
	CapManageSalaryTables
	CapEditOwnProfile
)

// CapabilitySet is a bit set of capabilities.
type CapabilitySet uint16

// NewCapabilitySet builds a set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range caps {
		s |= CapabilitySet(c)
	}
	return s
}

// Has reports whether c is a member of the set.
func (s CapabilitySet) Has(c Capability) bool {
	return s&CapabilitySet(c) != 0
}

// roleCapabilities is fixed at compile time; roles are not configurable.
var roleCapabilities = map[Role]CapabilitySet{
	RoleAdmin: NewCapabilitySet(CapAll),
	RoleManager: NewCapabilitySet(
		CapViewDashboard,
		CapViewRecords,
		CapManageEmployees,
		CapManageDepartments,
		CapManagePositions,
		CapManageMovements,
		CapManageSalaryTables,
		CapEditOwnProfile,
	),
	RoleAnalyst: NewCapabilitySet(
		CapViewDashboard,
		CapViewRecords,
		CapManageEmployees,
		CapManageMovements,
		CapEditOwnProfile,
	),
	RoleEmployee: NewCapabilitySet(
		CapViewDashboard,
		CapEditOwnProfile,
	),
}
