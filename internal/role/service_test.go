package role

import (
	"log/slog"
	"sort"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	apperrors "github.com/portal-labs/project-portal/internal"
	rbacDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/rbac"
	"github.com/portal-labs/project-portal/internal/rbac"
)

func TestRole(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Role Module Suite")
}

// mockRoleRepo keeps roles and the permission catalog in memory, including
// the role to permission links, so the bootstrap path can be exercised.
type mockRoleRepo struct {
	roles      map[int64]*rbacDatamodel.Role
	perms      map[string]*rbacDatamodel.Permission
	rolePerms  map[int64][]int64
	nextRoleID int64
	nextPermID int64
}

func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{
		roles:      map[int64]*rbacDatamodel.Role{},
		perms:      map[string]*rbacDatamodel.Permission{},
		rolePerms:  map[int64][]int64{},
		nextRoleID: 1,
		nextPermID: 1,
	}
}

func (m *mockRoleRepo) withPermissions(r *rbacDatamodel.Role) *rbacDatamodel.Role {
	cp := *r
	cp.Permissions = nil
	for _, pid := range m.rolePerms[r.ID] {
		for _, p := range m.perms {
			if p.ID == pid {
				cp.Permissions = append(cp.Permissions, *p)
			}
		}
	}
	return &cp
}

func (m *mockRoleRepo) GetAllRoles() ([]*rbacDatamodel.Role, error) {
	var out []*rbacDatamodel.Role
	for _, r := range m.roles {
		out = append(out, m.withPermissions(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockRoleRepo) GetRoleByID(id int64) (*rbacDatamodel.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, nil
	}
	return m.withPermissions(r), nil
}

func (m *mockRoleRepo) GetRoleByName(name string) (*rbacDatamodel.Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			return m.withPermissions(r), nil
		}
	}
	return nil, nil
}

func (m *mockRoleRepo) CreateRole(r *rbacDatamodel.Role) error {
	r.ID = m.nextRoleID
	m.nextRoleID++
	m.roles[r.ID] = r
	return nil
}

func (m *mockRoleRepo) UpdateRole(r *rbacDatamodel.Role) error {
	m.roles[r.ID] = r
	return nil
}

func (m *mockRoleRepo) DeleteRole(id int64) error {
	delete(m.roles, id)
	delete(m.rolePerms, id)
	return nil
}

func (m *mockRoleRepo) SetRolePermissions(roleID int64, permissionIDs []int64) error {
	m.rolePerms[roleID] = permissionIDs
	return nil
}

func (m *mockRoleRepo) GetAllPermissions() ([]*rbacDatamodel.Permission, error) {
	var out []*rbacDatamodel.Permission
	for _, p := range m.perms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codename < out[j].Codename })
	return out, nil
}

func (m *mockRoleRepo) GetPermissionsByCodenames(codenames []string) ([]*rbacDatamodel.Permission, error) {
	var out []*rbacDatamodel.Permission
	for _, code := range codenames {
		if p, ok := m.perms[code]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRoleRepo) UpsertPermission(p *rbacDatamodel.Permission) error {
	if existing, ok := m.perms[p.Codename]; ok {
		existing.Name = p.Name
		existing.Category = p.Category
		existing.IsActive = p.IsActive
		return nil
	}
	p.ID = m.nextPermID
	m.nextPermID++
	m.perms[p.Codename] = p
	return nil
}

var _ = ginkgo.Describe("RoleService", func() {
	var (
		service  *Service
		mockRepo *mockRoleRepo
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockRoleRepo()
		service = NewService(mockRepo, slog.Default())
		gomega.Expect(service.Bootstrap()).To(gomega.Succeed())
	})

	ginkgo.Describe("Bootstrap", func() {
		ginkgo.It("should seed the whole permission catalog", func() {
			perms, err := service.ListPermissions()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(perms).To(gomega.HaveLen(len(rbac.Catalog())))
		})

		ginkgo.It("should seed the six system roles", func() {
			roles, err := service.ListRoles()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(roles).To(gomega.HaveLen(6))
			for _, r := range roles {
				gomega.Expect(r.IsSystem).To(gomega.BeTrue())
			}
		})

		ginkgo.It("should give Administrateur the full catalog", func() {
			dm, err := mockRepo.GetRoleByName("Administrateur")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			r := FromDataModel(dm)
			gomega.Expect(r.Permissions).To(gomega.HaveLen(len(rbac.AllPermissionCodes())))
		})

		ginkgo.It("should give Utilisateur view permissions only", func() {
			dm, err := mockRepo.GetRoleByName("Utilisateur")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			r := FromDataModel(dm)
			gomega.Expect(r.Permissions).To(gomega.ContainElement(rbac.PermProjectView))
			gomega.Expect(r.Permissions).ToNot(gomega.ContainElement(rbac.PermProjectCreate))
		})

		ginkgo.It("should be idempotent", func() {
			gomega.Expect(service.Bootstrap()).To(gomega.Succeed())
			gomega.Expect(service.Bootstrap()).To(gomega.Succeed())

			roles, err := service.ListRoles()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(roles).To(gomega.HaveLen(6))

			perms, err := service.ListPermissions()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(perms).To(gomega.HaveLen(len(rbac.Catalog())))
		})
	})

	ginkgo.Describe("CreateRole", func() {
		ginkgo.It("should create a custom role with permissions", func() {
			dto := CreateRoleDTO{
				Name:        "Chef de projet junior",
				Permissions: []string{rbac.PermProjectView, rbac.PermTaskEdit},
			}

			r, err := service.CreateRole(dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(r.IsSystem).To(gomega.BeFalse())
			gomega.Expect(r.Permissions).To(gomega.ConsistOf(rbac.PermProjectView, rbac.PermTaskEdit))
		})

		ginkgo.It("should reject a duplicate name", func() {
			_, err := service.CreateRole(CreateRoleDTO{Name: "Manager"})

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrRoleExists))
		})

		ginkgo.It("should reject an unknown permission code", func() {
			dto := CreateRoleDTO{
				Name:        "Bidon",
				Permissions: []string{"galaxy:conquer"},
			}

			_, err := service.CreateRole(dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("DeleteRole", func() {
		ginkgo.It("should delete a custom role", func() {
			r, err := service.CreateRole(CreateRoleDTO{Name: "Temporaire"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.DeleteRole(r.ID)).To(gomega.Succeed())

			_, err = service.GetRole(r.ID)
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrRoleNotFound))
		})

		ginkgo.It("should refuse to delete a system role", func() {
			dm, err := mockRepo.GetRoleByName("Manager")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			err = service.DeleteRole(dm.ID)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrRoleSystem))
		})
	})

	ginkgo.Describe("permission management", func() {
		var roleID int64

		ginkgo.BeforeEach(func() {
			r, err := service.CreateRole(CreateRoleDTO{
				Name:        "Observateur",
				Permissions: []string{rbac.PermProjectView},
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			roleID = r.ID
		})

		ginkgo.It("should add a permission once", func() {
			gomega.Expect(service.AddPermission(roleID, rbac.PermTaskView)).To(gomega.Succeed())
			gomega.Expect(service.AddPermission(roleID, rbac.PermTaskView)).To(gomega.Succeed())

			r, err := service.GetRole(roleID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(r.Permissions).To(gomega.ConsistOf(rbac.PermProjectView, rbac.PermTaskView))
		})

		ginkgo.It("should remove a permission", func() {
			gomega.Expect(service.RemovePermission(roleID, rbac.PermProjectView)).To(gomega.Succeed())

			r, err := service.GetRole(roleID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(r.Permissions).To(gomega.BeEmpty())
		})

		ginkgo.It("should replace the whole set", func() {
			err := service.SetPermissions(roleID, []string{rbac.PermReportView, rbac.PermReportGenerate})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			r, err := service.GetRole(roleID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(r.Permissions).To(gomega.ConsistOf(rbac.PermReportView, rbac.PermReportGenerate))
		})
	})

	ginkgo.Describe("ListPermissionsGrouped", func() {
		ginkgo.It("should group by catalog category", func() {
			groups, err := service.ListPermissionsGrouped()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(groups).ToNot(gomega.BeEmpty())
			for _, g := range groups {
				gomega.Expect(g.Entries).ToNot(gomega.BeEmpty())
				for _, e := range g.Entries {
					gomega.Expect(e.Category).To(gomega.Equal(g.Category))
				}
			}
		})
	})
})
