package rbac_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/portal-labs/project-portal/internal/rbac"
)

var _ = Describe("PermissionsForRole", func() {
	It("returns the full superset for admin", func() {
		perms := rbac.PermissionsForRole(rbac.RoleAdmin)
		Expect(perms.Has(rbac.PermProjectDelete)).To(BeTrue())
		Expect(perms.Has(rbac.PermUserManage)).To(BeTrue())
		Expect(perms.Has(rbac.PermSystemAdmin)).To(BeTrue())
	})

	It("gives manager full project and task CRUD but no user delete or manage", func() {
		perms := rbac.PermissionsForRole(rbac.RoleManager)
		Expect(perms.Has(rbac.PermProjectCreate)).To(BeTrue())
		Expect(perms.Has(rbac.PermProjectDelete)).To(BeTrue())
		Expect(perms.Has(rbac.PermTaskDelete)).To(BeTrue())
		Expect(perms.Has(rbac.PermUserView)).To(BeTrue())
		Expect(perms.Has(rbac.PermUserEdit)).To(BeTrue())
		Expect(perms.Has(rbac.PermUserDelete)).To(BeFalse())
		Expect(perms.Has(rbac.PermUserManage)).To(BeFalse())
	})

	It("limits user and PROJECT_USER to view-class permissions", func() {
		for _, role := range []string{rbac.RoleUser, rbac.RoleProjectUser} {
			perms := rbac.PermissionsForRole(role)
			Expect(perms.Has(rbac.PermProjectView)).To(BeTrue(), role)
			Expect(perms.Has(rbac.PermTaskView)).To(BeTrue(), role)
			Expect(perms.Has(rbac.PermProjectCreate)).To(BeFalse(), role)
			Expect(perms.Has(rbac.PermProjectDelete)).To(BeFalse(), role)
		}
	})

	It("returns the empty set for unknown role codes", func() {
		Expect(rbac.PermissionsForRole("intern")).To(BeEmpty())
		Expect(rbac.PermissionsForRole("")).To(BeEmpty())
	})

	It("returns a copy that callers may mutate safely", func() {
		perms := rbac.PermissionsForRole(rbac.RoleUser)
		perms[rbac.PermProjectDelete] = struct{}{}
		Expect(rbac.PermissionsForRole(rbac.RoleUser).Has(rbac.PermProjectDelete)).To(BeFalse())
	})
})

var _ = Describe("HasPermission", func() {
	It("denies a nil actor", func() {
		Expect(rbac.HasPermission(nil, rbac.PermProjectView)).To(BeFalse())
	})

	Context("superuser bypass", func() {
		actor := &rbac.Actor{ID: 1, Username: "sys", Role: rbac.RoleUser, IsSuperuser: true}

		It("allows every known permission", func() {
			for _, code := range rbac.AllPermissionCodes() {
				Expect(rbac.HasPermission(actor, code)).To(BeTrue(), code)
			}
		})

		It("ignores the permission argument entirely", func() {
			// The bypass fires before the code is inspected, so even
			// nonsense codes pass for a superuser.
			Expect(rbac.HasPermission(actor, "no:such:permission")).To(BeTrue())
			Expect(rbac.HasPermission(actor, "")).To(BeTrue())
		})
	})

	It("grants the same bypass to the staff flag alone", func() {
		staff := &rbac.Actor{ID: 2, Role: rbac.RoleUser, IsStaff: true}
		Expect(rbac.HasPermission(staff, rbac.PermUserManage)).To(BeTrue())
		Expect(rbac.HasPermission(staff, "made:up")).To(BeTrue())
	})

	It("grants the bypass to the admin built-in role", func() {
		admin := &rbac.Actor{ID: 3, Role: rbac.RoleAdmin}
		Expect(rbac.HasPermission(admin, rbac.PermProjectDelete)).To(BeTrue())
	})

	It("denies project:delete but allows project:view for plain users", func() {
		for _, role := range []string{rbac.RoleUser, rbac.RoleProjectUser} {
			actor := &rbac.Actor{ID: 4, Role: role}
			Expect(rbac.HasPermission(actor, rbac.PermProjectDelete)).To(BeFalse(), role)
			Expect(rbac.HasPermission(actor, rbac.PermProjectView)).To(BeTrue(), role)
		}
	})

	It("denies unknown permission codes without erroring", func() {
		actor := &rbac.Actor{ID: 5, Role: rbac.RoleManager}
		Expect(rbac.HasPermission(actor, "warehouse:teleport")).To(BeFalse())
	})

	It("consults assigned custom roles after the built-in table", func() {
		alice := &rbac.Actor{
			ID:   6,
			Role: rbac.RoleUser,
			CustomRoles: []rbac.RoleGrant{
				{Name: "Manager", Permissions: []string{
					"view_project", "add_project", "change_project", "view_task",
				}},
			},
		}
		Expect(rbac.HasPermission(alice, "change_project")).To(BeTrue())
		Expect(rbac.HasPermission(alice, "delete_project")).To(BeFalse())
	})
})

var _ = Describe("PermissionsFor", func() {
	It("unions built-in role permissions with custom role codenames", func() {
		actor := &rbac.Actor{
			ID:   7,
			Role: rbac.RoleUser,
			CustomRoles: []rbac.RoleGrant{
				{Name: "Reporting", Permissions: []string{"generate_report"}},
			},
		}
		perms := rbac.PermissionsFor(actor)
		Expect(perms.Has(rbac.PermProjectView)).To(BeTrue())
		Expect(perms.Has("generate_report")).To(BeTrue())
		Expect(perms.Has(rbac.PermProjectDelete)).To(BeFalse())
	})

	It("returns the full catalog for admin-class actors", func() {
		perms := rbac.PermissionsFor(&rbac.Actor{ID: 8, IsStaff: true})
		Expect(perms.Codes()).To(ConsistOf(rbac.AllPermissionCodes()))
	})

	It("returns the empty set for nil", func() {
		Expect(rbac.PermissionsFor(nil)).To(BeEmpty())
	})
})
