package rbac_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/portal-labs/project-portal/internal/rbac"
)

var _ = Describe("CanModifyUser", func() {
	It("lets only a superuser modify a superuser target", func() {
		target := &rbac.Actor{ID: 1, Username: "sys", IsSuperuser: true}
		requester := &rbac.Actor{
			ID:   2,
			Role: rbac.RoleManager,
			CustomRoles: []rbac.RoleGrant{
				{Name: "UserAdmins", Permissions: []string{rbac.PermUserManage}},
			},
		}
		// The requester holds user:manage, but protection wins.
		Expect(rbac.HasPermission(requester, rbac.PermUserManage)).To(BeTrue())
		Expect(rbac.CanModifyUser(target, requester)).To(BeFalse())

		super := &rbac.Actor{ID: 3, IsSuperuser: true}
		Expect(rbac.CanModifyUser(target, super)).To(BeTrue())
	})

	It("protects reserved usernames the same way", func() {
		for _, name := range []string{"admin", "root", "superuser"} {
			target := &rbac.Actor{ID: 4, Username: name, Role: rbac.RoleUser}
			manager := &rbac.Actor{ID: 5, Role: rbac.RoleManager}
			super := &rbac.Actor{ID: 6, IsSuperuser: true}
			Expect(rbac.CanModifyUser(target, manager)).To(BeFalse(), name)
			Expect(rbac.CanModifyUser(target, super)).To(BeTrue(), name)
		}
	})

	It("lets superusers, admins and managers modify regular users", func() {
		target := &rbac.Actor{ID: 7, Username: "karim", Role: rbac.RoleDeveloper}
		Expect(rbac.CanModifyUser(target, &rbac.Actor{ID: 8, IsSuperuser: true})).To(BeTrue())
		Expect(rbac.CanModifyUser(target, &rbac.Actor{ID: 9, Role: rbac.RoleAdmin})).To(BeTrue())
		Expect(rbac.CanModifyUser(target, &rbac.Actor{ID: 10, Role: rbac.RoleManager})).To(BeTrue())
		Expect(rbac.CanModifyUser(target, &rbac.Actor{ID: 11, Role: rbac.RoleDeveloper})).To(BeFalse())
	})

	It("denies when either side is nil", func() {
		target := &rbac.Actor{ID: 12, Username: "karim"}
		Expect(rbac.CanModifyUser(nil, target)).To(BeFalse())
		Expect(rbac.CanModifyUser(target, nil)).To(BeFalse())
	})
})

var _ = Describe("CanModifyProject", func() {
	project := rbac.ProjectRef{ManagerID: 20}

	It("allows the project manager", func() {
		Expect(rbac.CanModifyProject(project, &rbac.Actor{ID: 20, Role: rbac.RoleProjectManager})).To(BeTrue())
	})

	It("allows admin-class actors", func() {
		Expect(rbac.CanModifyProject(project, &rbac.Actor{ID: 99, Role: rbac.RoleAdmin})).To(BeTrue())
		Expect(rbac.CanModifyProject(project, &rbac.Actor{ID: 99, IsStaff: true})).To(BeTrue())
	})

	It("denies team members who are not the manager", func() {
		Expect(rbac.CanModifyProject(project, &rbac.Actor{ID: 21, Role: rbac.RoleDeveloper})).To(BeFalse())
	})

	It("denies nil actors and zero manager ids", func() {
		Expect(rbac.CanModifyProject(project, nil)).To(BeFalse())
		Expect(rbac.CanModifyProject(rbac.ProjectRef{}, &rbac.Actor{ID: 0, Role: rbac.RoleUser})).To(BeFalse())
	})
})

var _ = Describe("CanModifyTask", func() {
	assignee := int64(30)
	task := rbac.TaskRef{AssigneeID: &assignee, ProjectManagerID: 20}

	It("allows the assignee, the project manager and admins", func() {
		Expect(rbac.CanModifyTask(task, &rbac.Actor{ID: 30, Role: rbac.RoleDeveloper})).To(BeTrue())
		Expect(rbac.CanModifyTask(task, &rbac.Actor{ID: 20, Role: rbac.RoleProjectManager})).To(BeTrue())
		Expect(rbac.CanModifyTask(task, &rbac.Actor{ID: 1, Role: rbac.RoleAdmin})).To(BeTrue())
	})

	It("denies everyone else", func() {
		Expect(rbac.CanModifyTask(task, &rbac.Actor{ID: 31, Role: rbac.RoleDeveloper})).To(BeFalse())
		Expect(rbac.CanModifyTask(task, nil)).To(BeFalse())
	})

	It("handles unassigned tasks", func() {
		unassigned := rbac.TaskRef{ProjectManagerID: 20}
		Expect(rbac.CanModifyTask(unassigned, &rbac.Actor{ID: 30, Role: rbac.RoleDeveloper})).To(BeFalse())
		Expect(rbac.CanModifyTask(unassigned, &rbac.Actor{ID: 20, Role: rbac.RoleProjectManager})).To(BeTrue())
	})
})

var _ = Describe("CanModifyComment", func() {
	It("allows the author and admins only", func() {
		Expect(rbac.CanModifyComment(40, &rbac.Actor{ID: 40, Role: rbac.RoleUser})).To(BeTrue())
		Expect(rbac.CanModifyComment(40, &rbac.Actor{ID: 41, Role: rbac.RoleAdmin})).To(BeTrue())
		Expect(rbac.CanModifyComment(40, &rbac.Actor{ID: 42, Role: rbac.RoleManager})).To(BeFalse())
		Expect(rbac.CanModifyComment(40, nil)).To(BeFalse())
	})
})
