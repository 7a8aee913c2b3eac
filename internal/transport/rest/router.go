package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/portal-labs/project-portal/internal/auth"
	"github.com/portal-labs/project-portal/internal/dashboard"
	"github.com/portal-labs/project-portal/internal/department"
	"github.com/portal-labs/project-portal/internal/export"
	"github.com/portal-labs/project-portal/internal/notification"
	"github.com/portal-labs/project-portal/internal/project"
	"github.com/portal-labs/project-portal/internal/rbac"
	"github.com/portal-labs/project-portal/internal/role"
	"github.com/portal-labs/project-portal/internal/task"
	"github.com/portal-labs/project-portal/internal/transport/middleware"
	"github.com/portal-labs/project-portal/internal/user"
)

// Handlers bundles every module handler the router mounts.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Role         *role.Handler
	Department   *department.Handler
	Project      *project.Handler
	Task         *task.Handler
	Dashboard    *dashboard.Handler
	Export       *export.Handler
	Notification *notification.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Mount API under /api/v1
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			// Current user
			pr.Get("/auth/me", h.Auth.Me)
			pr.Get("/users/me", h.User.GetCurrentUser)

			// User administration
			pr.Route("/users", func(ur chi.Router) {
				ur.With(middleware.RequirePermissions(rbac.PermUserView)).Get("/", h.User.ListUsers)
				ur.With(middleware.RequirePermissions(rbac.PermUserCreate)).Post("/", h.User.CreateUser)
				ur.With(middleware.RequirePermissions(rbac.PermUserView)).Get("/{id}", h.User.GetUser)
				ur.With(middleware.RequirePermissions(rbac.PermUserEdit)).Put("/{id}", h.User.UpdateUser)
				ur.With(middleware.RequirePermissions(rbac.PermUserDelete)).Delete("/{id}", h.User.DeleteUser)
				ur.Post("/{id}/password", h.User.ChangePassword)
				ur.With(middleware.RequirePermissions(rbac.PermUserView)).Get("/{id}/roles", h.User.GetUserRoles)
				ur.With(middleware.RequirePermissions(rbac.PermUserManage)).Put("/{id}/roles", h.User.AssignRoles)
			})

			// Role and permission catalog
			pr.Route("/roles", func(rr chi.Router) {
				rr.With(middleware.RequirePermissions(rbac.PermRoleView)).Get("/", h.Role.ListRoles)
				rr.With(middleware.RequirePermissions(rbac.PermRoleChange)).Post("/", h.Role.CreateRole)
				rr.With(middleware.RequirePermissions(rbac.PermRoleView)).Get("/{id}", h.Role.GetRole)
				rr.With(middleware.RequirePermissions(rbac.PermRoleChange)).Put("/{id}", h.Role.UpdateRole)
				rr.With(middleware.RequirePermissions(rbac.PermRoleChange)).Delete("/{id}", h.Role.DeleteRole)

				rr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermissions(rbac.PermPermissionChange))
					mr.Put("/{id}/permissions", h.Role.SetPermissions)
					mr.Post("/{id}/permissions/{codename}", h.Role.AddPermission)
					mr.Delete("/{id}/permissions/{codename}", h.Role.RemovePermission)
				})
			})

			pr.With(middleware.RequirePermissions(rbac.PermPermissionView)).
				Get("/permissions", h.Role.ListPermissions)

			// Department access grants
			pr.Route("/departments", func(dr chi.Router) {
				dr.Get("/", h.Department.ListDepartments)
				dr.Get("/access", h.Department.MyAccess)

				dr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermissions(rbac.PermPermissionView))
					mr.Get("/{department}/grants", h.Department.GetDepartmentGrants)
					mr.Get("/users/{userID}", h.Department.GetUserGrants)
				})

				dr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermissions(rbac.PermPermissionChange))
					mr.Put("/users/{userID}", h.Department.UpsertGrant)
					mr.Post("/users/{userID}/bulk", h.Department.BulkUpdateGrants)
					mr.Delete("/users/{userID}/{department}", h.Department.RevokeGrant)
				})
			})

			// Project routes
			pr.Route("/projects", func(prr chi.Router) {
				prr.Get("/", h.Project.ListProjects)
				prr.With(middleware.RequirePermissions(rbac.PermProjectCreate)).Post("/", h.Project.CreateProject)
				prr.Get("/{id}", h.Project.GetProject)
				prr.With(middleware.RequirePermissions(rbac.PermProjectEdit)).Put("/{id}", h.Project.UpdateProject)
				prr.With(middleware.RequirePermissions(rbac.PermProjectDelete)).Delete("/{id}", h.Project.DeleteProject)

				prr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermissions(rbac.PermTeamManage))
					mr.Post("/{id}/team", h.Project.AddTeamMember)
					mr.Delete("/{id}/team/{userID}", h.Project.RemoveTeamMember)
				})

				prr.Get("/{id}/comments", h.Project.ListComments)
				prr.Post("/{id}/comments", h.Project.AddComment)
				prr.Delete("/comments/{commentID}", h.Project.DeleteComment)

				prr.Get("/{id}/attachments", h.Project.ListAttachments)
				prr.Post("/{id}/attachments", h.Project.AddAttachment)
			})

			// Task routes
			pr.Route("/tasks", func(tr chi.Router) {
				tr.Get("/", h.Task.ListTasks)
				tr.With(middleware.RequirePermissions(rbac.PermTaskCreate)).Post("/", h.Task.CreateTask)
				tr.Get("/{id}", h.Task.GetTask)
				tr.With(middleware.RequirePermissions(rbac.PermTaskEdit)).Put("/{id}", h.Task.UpdateTask)
				tr.With(middleware.RequirePermissions(rbac.PermTaskEdit)).Patch("/{id}/assign", h.Task.AssignTask)
				tr.With(middleware.RequirePermissions(rbac.PermTaskEdit)).Patch("/{id}/time", h.Task.TrackTime)
				tr.With(middleware.RequirePermissions(rbac.PermTaskDelete)).Delete("/{id}", h.Task.DeleteTask)
			})

			// Dashboard aggregates
			pr.Route("/dashboard", func(dr chi.Router) {
				dr.Get("/", h.Dashboard.GetOverview)
				dr.Get("/projects", h.Dashboard.GetProjectStats)
				dr.Get("/tasks", h.Dashboard.GetTaskStats)
				dr.Get("/departments", h.Dashboard.GetDepartmentStats)
				dr.Get("/activity", h.Dashboard.GetRecentActivity)
			})

			// Exports (requires report generation permission)
			pr.Route("/export", func(er chi.Router) {
				er.Use(middleware.RequirePermissions(rbac.PermReportGenerate))
				er.Get("/projects", h.Export.ExportProjects)
				er.Get("/tasks", h.Export.ExportTasks)
			})

			// Notifications
			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", h.Notification.ListMyNotifications)
				nr.With(middleware.RequirePermissions(rbac.PermSystemAdmin)).
					Post("/resend-failed", h.Notification.ResendFailed)
			})
		})
	})
}
