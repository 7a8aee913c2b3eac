package rbac

// protectedUsernames are reserved accounts that, like superusers, only
// another superuser may modify.
var protectedUsernames = map[string]struct{}{
	"admin":     {},
	"root":      {},
	"superuser": {},
}

// IsProtectedUser reports whether the actor is shielded from modification by
// non-superusers.
func IsProtectedUser(a *Actor) bool {
	if a == nil {
		return false
	}
	if a.IsSuperuser {
		return true
	}
	_, reserved := protectedUsernames[a.Username]
	return reserved
}

// CanModifyUser decides whether requester may modify target. Protection wins
// over any permission grant: a protected target requires a superuser
// requester no matter what the permission table says. Unprotected targets
// may be modified by superusers and by admin or manager built-in roles.
func CanModifyUser(target, requester *Actor) bool {
	if target == nil || requester == nil {
		return false
	}
	if IsProtectedUser(target) {
		return requester.IsSuperuser
	}
	return requester.IsSuperuser || requester.Role == RoleAdmin || requester.Role == RoleManager
}

// ProjectRef carries the project fields the guards depend on. Team
// membership is deliberately absent: being on the team grants view access
// elsewhere, never modify rights here.
type ProjectRef struct {
	ManagerID int64
}

// CanModifyProject allows admin-class actors and the project's manager.
func CanModifyProject(p ProjectRef, a *Actor) bool {
	if a == nil {
		return false
	}
	if IsAdminActor(a) {
		return true
	}
	return p.ManagerID != 0 && p.ManagerID == a.ID
}

// TaskRef carries the task fields the guards depend on.
type TaskRef struct {
	AssigneeID       *int64
	ProjectManagerID int64
}

// CanModifyTask allows admin-class actors, the parent project's manager, and
// the task's current assignee.
func CanModifyTask(t TaskRef, a *Actor) bool {
	if a == nil {
		return false
	}
	if IsAdminActor(a) {
		return true
	}
	if t.ProjectManagerID != 0 && t.ProjectManagerID == a.ID {
		return true
	}
	return t.AssigneeID != nil && *t.AssigneeID == a.ID
}

// CanModifyComment allows admin-class actors and the comment's author.
func CanModifyComment(authorID int64, a *Actor) bool {
	if a == nil {
		return false
	}
	if IsAdminActor(a) {
		return true
	}
	return authorID != 0 && authorID == a.ID
}
