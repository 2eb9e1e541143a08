package app

import (
	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/rbac"
)

var resourceRoles = map[string][]rbac.Role{
	apiclient.ResourceEmployees:    {rbac.RoleAdmin, rbac.RoleManager, rbac.RoleAnalyst},
	apiclient.ResourceDepartments:  {rbac.RoleAdmin, rbac.RoleManager, rbac.RoleAnalyst},
	apiclient.ResourcePositions:    {rbac.RoleAdmin, rbac.RoleManager, rbac.RoleAnalyst},
	apiclient.ResourceMovements:    {rbac.RoleAdmin, rbac.RoleManager, rbac.RoleAnalyst},
	apiclient.ResourceSalaryTables: {rbac.RoleAdmin, rbac.RoleManager},
}

var resourceWrites = map[string]rbac.Capability{
	apiclient.ResourceEmployees:    rbac.CapManageEmployees,
	apiclient.ResourceDepartments:  rbac.CapManageDepartments,
	apiclient.ResourcePositions:    rbac.CapManagePositions,
	apiclient.ResourceMovements:    rbac.CapManageMovements,
	apiclient.ResourceSalaryTables: rbac.CapManageSalaryTables,
}

// RequiredRoles returns the roles allowed to open a resource group. Dashboard
// metrics and unknown names require only an authenticated user.
func RequiredRoles(resource string) []rbac.Role {
	return resourceRoles[resource]
}

// WriteCapability returns the capability needed to create, update or delete
// records of a resource group. Unknown names report false and are never
// writable.
func WriteCapability(resource string) (rbac.Capability, bool) {
	c, ok := resourceWrites[resource]
	return c, ok
}
