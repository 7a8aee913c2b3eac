package middleware

import (
	"log/slog"
	"net/http"

	"github.com/portal-labs/project-portal/internal/auth"
	"github.com/portal-labs/project-portal/internal/rbac"
)

// RequirePermissions creates a middleware that passes when the actor holds
// any of the listed permission codes. Admin-class actors always pass.
func RequirePermissions(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.ActorFromContext(r.Context())
			if !ok || actor == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			allowed := false
			for _, required := range permissions {
				if rbac.HasPermission(actor, required) {
					allowed = true
					break
				}
			}

			if !allowed {
				slog.Warn("access denied: actor lacks required permissions",
					"user_id", actor.ID,
					"role", actor.Role,
					"required_permissions", permissions)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
