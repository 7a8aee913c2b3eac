package rbac

// Built-in role codes. Every user record carries exactly one of these in
// addition to any number of persisted custom roles. The mixed-case
// PROJECT_MANAGER/PROJECT_USER spellings are part of the stored data and
// must not be normalized.
const (
	RoleAdmin          = "admin"
	RoleManager        = "manager"
	RoleDeveloper      = "developer"
	RoleDesigner       = "designer"
	RoleTester         = "tester"
	RoleUser           = "user"
	RoleProjectManager = "PROJECT_MANAGER"
	RoleProjectUser    = "PROJECT_USER"
)

// BuiltinRoles returns the built-in role codes in display order.
func BuiltinRoles() []string {
	return []string{
		RoleAdmin,
		RoleManager,
		RoleDeveloper,
		RoleDesigner,
		RoleTester,
		RoleUser,
		RoleProjectManager,
		RoleProjectUser,
	}
}

// IsBuiltinRole reports whether code is one of the built-in role codes.
func IsBuiltinRole(code string) bool {
	switch code {
	case RoleAdmin, RoleManager, RoleDeveloper, RoleDesigner,
		RoleTester, RoleUser, RoleProjectManager, RoleProjectUser:
		return true
	}
	return false
}

// PermissionSet is an unordered set of permission codes.
type PermissionSet map[string]struct{}

// Has reports membership of code in the set.
func (s PermissionSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Codes returns the set's members as a slice, in unspecified order.
func (s PermissionSet) Codes() []string {
	out := make([]string, 0, len(s))
	for code := range s {
		out = append(out, code)
	}
	return out
}

func newPermissionSet(codes ...string) PermissionSet {
	s := make(PermissionSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// rolePermissions is the single canonical role→permission table.
//
// The portal historically grew several copies of this mapping that drifted
// apart, notably on whether manager-class roles carry any user:* grants.
// This table follows the shared constants variant: manager and
// PROJECT_MANAGER keep user:view/create/edit but never user:delete or
// user:manage, which remain superuser-only. Where the constants variant is
// silent, grants are merged in from the backend models variant rather than
// dropped: team:view and team:manage for manager, and team:view for
// developer, designer and tester. The report:view and report:generate
// grants on manager pair the catalog's reports category with the export
// endpoints, which no legacy variant gated.
var rolePermissions = map[string]PermissionSet{
	RoleAdmin: newPermissionSet(
		PermProjectView, PermProjectCreate, PermProjectEdit, PermProjectDelete,
		PermTaskView, PermTaskCreate, PermTaskEdit, PermTaskDelete,
		PermUserView, PermUserCreate, PermUserEdit, PermUserDelete, PermUserManage,
		PermCalendarView, PermCalendarCreate, PermCalendarEdit, PermCalendarDelete, PermCalendarExport,
		PermTeamView, PermTeamManage,
		PermReportView, PermReportGenerate,
		PermSettingsView, PermSettingsChange,
		PermPermissionView, PermPermissionChange, PermRoleView, PermRoleChange,
		PermSystemAdmin,
	),
	RoleManager: newPermissionSet(
		PermProjectView, PermProjectCreate, PermProjectEdit, PermProjectDelete,
		PermTaskView, PermTaskCreate, PermTaskEdit, PermTaskDelete,
		PermUserView, PermUserCreate, PermUserEdit,
		PermCalendarView, PermCalendarCreate, PermCalendarEdit, PermCalendarDelete, PermCalendarExport,
		PermTeamView, PermTeamManage,
		PermReportView, PermReportGenerate,
	),
	RoleProjectManager: newPermissionSet(
		PermProjectView, PermProjectCreate, PermProjectEdit, PermProjectDelete,
		PermTaskView, PermTaskCreate, PermTaskEdit, PermTaskDelete,
		PermUserView, PermUserCreate, PermUserEdit,
		PermCalendarView, PermCalendarCreate, PermCalendarEdit, PermCalendarDelete, PermCalendarExport,
	),
	RoleDeveloper: newPermissionSet(
		PermProjectView,
		PermTaskView, PermTaskCreate, PermTaskEdit,
		PermTeamView,
		PermCalendarView,
	),
	RoleDesigner: newPermissionSet(
		PermProjectView,
		PermTaskView, PermTaskCreate, PermTaskEdit,
		PermTeamView,
		PermCalendarView,
	),
	RoleTester: newPermissionSet(
		PermProjectView,
		PermTaskView, PermTaskEdit,
		PermTeamView,
		PermCalendarView,
	),
	RoleUser: newPermissionSet(
		PermProjectView,
		PermTaskView,
		PermCalendarView,
	),
	RoleProjectUser: newPermissionSet(
		PermProjectView,
		PermTaskView,
		PermCalendarView,
	),
}

// PermissionsForRole returns the permission set of a built-in role. Unknown
// role codes yield an empty set; callers treat that as deny, never as an
// error. The returned set is a copy and safe to mutate.
func PermissionsForRole(role string) PermissionSet {
	perms, ok := rolePermissions[role]
	if !ok {
		return PermissionSet{}
	}
	out := make(PermissionSet, len(perms))
	for code := range perms {
		out[code] = struct{}{}
	}
	return out
}
