package rbac

// Actor is the authorization view of a user: the fields every decision
// function is allowed to depend on, loaded once per request by the auth
// layer. Decision functions never touch storage and never mutate the actor.
type Actor struct {
	ID          int64
	Username    string
	Role        string
	IsSuperuser bool
	IsStaff     bool
	Department  string
	CustomRoles []RoleGrant
}

// RoleGrant is one custom role assigned to an actor, with the permission
// codenames persisted on that role.
type RoleGrant struct {
	Name        string
	Permissions []string
}

// IsAdminActor reports whether the actor short-circuits every permission
// check. Staff users are included: the staff flag alone grants the full
// bypass, which is broader than a least-privilege reading would suggest but
// is the behavior the portal has always shipped.
func IsAdminActor(a *Actor) bool {
	if a == nil {
		return false
	}
	return a.IsSuperuser || a.IsStaff || a.Role == RoleAdmin
}

// HasPermission decides whether the actor holds the given permission code.
//
// Order, first match wins: nil actor denies; admin-class actors allow
// unconditionally (the code is not even inspected); then the built-in role
// table; then each assigned custom role's persisted codenames. Unknown
// permission codes simply never match. The function is pure and never
// errors: ambiguity resolves to deny.
func HasPermission(a *Actor, permission string) bool {
	if a == nil {
		return false
	}
	if IsAdminActor(a) {
		return true
	}
	if PermissionsForRole(a.Role).Has(permission) {
		return true
	}
	for _, grant := range a.CustomRoles {
		for _, code := range grant.Permissions {
			if code == permission {
				return true
			}
		}
	}
	return false
}

// PermissionsFor returns the union of every permission the actor holds.
// Admin-class actors get the full catalog.
func PermissionsFor(a *Actor) PermissionSet {
	if a == nil {
		return PermissionSet{}
	}
	if IsAdminActor(a) {
		return newPermissionSet(AllPermissionCodes()...)
	}
	out := PermissionsForRole(a.Role)
	for _, grant := range a.CustomRoles {
		for _, code := range grant.Permissions {
			out[code] = struct{}{}
		}
	}
	return out
}
