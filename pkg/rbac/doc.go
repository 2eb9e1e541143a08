// Package rbac describes who may do what in the HR portal.
//
// Roles form a closed enumeration (admin, manager, analyst, employee). Each role
// owns a fixed capability set and permission checks are set-membership tests
// against it, never string comparison chains.
//
// The admin bypass is an explicit capability (CapAll) rather than a special
// case hidden in the checks: any role holding CapAll satisfies every role
// requirement and every capability check.
//
// Basic usage:
//
//	// Route requirement expressed as a role set
//	if !rbac.HasPermission(user.Role, rbac.RoleManager, rbac.RoleAnalyst) {
//	    // redirect to the landing view
//	}
//
//	// Fine-grained capability check
//	if rbac.Can(user.Role, rbac.CapManageSalaryTables) {
//	    // show salary table actions
//	}
//
//	// Role carried through a request context
//	ctx = rbac.SetRoleToContext(ctx, user.Role)
//	if err := rbac.CanFromContext(ctx, rbac.CapManageDepartments); err != nil {
//	    // respond 403
//	}
package rbac
