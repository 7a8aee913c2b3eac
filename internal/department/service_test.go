package department

import (
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	apperrors "github.com/portal-labs/project-portal/internal"
	rbacDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/rbac"
	"github.com/portal-labs/project-portal/internal/rbac"
)

func TestDepartment(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Department Module Suite")
}

type mockDeptRepo struct {
	rows   []*rbacDatamodel.DepartmentPermission
	nextID int64
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{nextID: 1}
}

func (m *mockDeptRepo) GetForUser(userID int64) ([]*rbacDatamodel.DepartmentPermission, error) {
	var out []*rbacDatamodel.DepartmentPermission
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockDeptRepo) GetForUserAndDepartment(userID int64, dept string) (*rbacDatamodel.DepartmentPermission, error) {
	for _, r := range m.rows {
		if r.UserID == userID && r.Department == dept {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockDeptRepo) GetForDepartment(dept string) ([]*rbacDatamodel.DepartmentPermission, error) {
	var out []*rbacDatamodel.DepartmentPermission
	for _, r := range m.rows {
		if r.Department == dept {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockDeptRepo) Upsert(dm *rbacDatamodel.DepartmentPermission) error {
	for i, r := range m.rows {
		if r.UserID == dm.UserID && r.Department == dm.Department {
			dm.ID = r.ID
			m.rows[i] = dm
			return nil
		}
	}
	dm.ID = m.nextID
	m.nextID++
	m.rows = append(m.rows, dm)
	return nil
}

func (m *mockDeptRepo) Delete(userID int64, dept string) error {
	for i, r := range m.rows {
		if r.UserID == userID && r.Department == dept {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

var _ = ginkgo.Describe("DepartmentService", func() {
	var (
		service  *Service
		mockRepo *mockDeptRepo
		actor    *rbac.Actor
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockDeptRepo()
		service = NewService(mockRepo, slog.Default())
		actor = &rbac.Actor{ID: 7, Username: "jdupont", Role: rbac.RoleUser, Department: rbac.DeptFinance}
	})

	ginkgo.Describe("Upsert", func() {
		ginkgo.It("should create one row per user and department", func() {
			_, err := service.Upsert(7, UpsertGrantDTO{Department: rbac.DeptJuridique, CanView: true})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Upsert(7, UpsertGrantDTO{Department: rbac.DeptJuridique, CanView: true, CanEdit: true})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(mockRepo.rows).To(gomega.HaveLen(1))
			gomega.Expect(mockRepo.rows[0].CanEdit).To(gomega.BeTrue())
		})

		ginkgo.It("should reject an unknown department", func() {
			_, err := service.Upsert(7, UpsertGrantDTO{Department: "ventes", CanView: true})

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrInvalidDepartment))
		})
	})

	ginkgo.Describe("BulkUpdate", func() {
		ginkgo.It("should save all listed grants", func() {
			dto := BulkUpdateDTO{Grants: []UpsertGrantDTO{
				{Department: rbac.DeptJuridique, CanView: true},
				{Department: rbac.DeptComptabilite, CanView: true, CanEdit: true},
			}}

			grants, err := service.BulkUpdate(7, dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(grants).To(gomega.HaveLen(2))
			gomega.Expect(mockRepo.rows).To(gomega.HaveLen(2))
		})

		ginkgo.It("should reject the batch if any department is unknown", func() {
			dto := BulkUpdateDTO{Grants: []UpsertGrantDTO{
				{Department: rbac.DeptJuridique, CanView: true},
				{Department: "ventes", CanView: true},
			}}

			_, err := service.BulkUpdate(7, dto)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrInvalidDepartment))
			gomega.Expect(mockRepo.rows).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Revoke", func() {
		ginkgo.It("should remove an existing grant", func() {
			_, err := service.Upsert(7, UpsertGrantDTO{Department: rbac.DeptJuridique, CanView: true})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Revoke(7, rbac.DeptJuridique)).To(gomega.Succeed())
			gomega.Expect(mockRepo.rows).To(gomega.BeEmpty())
		})

		ginkgo.It("should report a missing grant", func() {
			err := service.Revoke(7, rbac.DeptJuridique)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrPermissionNotFound))
		})
	})

	ginkgo.Describe("AccessSummaryFor", func() {
		ginkgo.It("should fall back to the home department for view, edit and create but not delete", func() {
			summary, err := service.AccessSummaryFor(actor)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			byDept := map[string]*AccessSummary{}
			for _, s := range summary {
				byDept[s.Department] = s
			}

			home := byDept[rbac.DeptFinance]
			gomega.Expect(home.IsHome).To(gomega.BeTrue())
			gomega.Expect(home.CanView).To(gomega.BeTrue())
			gomega.Expect(home.CanEdit).To(gomega.BeTrue())
			gomega.Expect(home.CanCreate).To(gomega.BeTrue())
			gomega.Expect(home.CanDelete).To(gomega.BeFalse())

			foreign := byDept[rbac.DeptJuridique]
			gomega.Expect(foreign.CanView).To(gomega.BeFalse())
		})

		ginkgo.It("should honor explicit rows over the fallback", func() {
			_, err := service.Upsert(7, UpsertGrantDTO{Department: rbac.DeptFinance, CanView: true})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			summary, err := service.AccessSummaryFor(actor)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			for _, s := range summary {
				if s.Department == rbac.DeptFinance {
					gomega.Expect(s.CanView).To(gomega.BeTrue())
					gomega.Expect(s.CanEdit).To(gomega.BeFalse())
				}
			}
		})

		ginkgo.It("should give an admin everything including delete", func() {
			admin := &rbac.Actor{ID: 1, Username: "admin", Role: rbac.RoleAdmin, IsSuperuser: true}

			summary, err := service.AccessSummaryFor(admin)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			for _, s := range summary {
				gomega.Expect(s.CanView).To(gomega.BeTrue())
				gomega.Expect(s.CanDelete).To(gomega.BeTrue())
			}
		})
	})

	ginkgo.Describe("AccessibleDepartments", func() {
		ginkgo.It("should union the home department with granted ones", func() {
			_, err := service.Upsert(7, UpsertGrantDTO{Department: rbac.DeptJuridique, CanView: true})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			depts, err := service.AccessibleDepartments(actor)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(depts).To(gomega.ConsistOf(rbac.DeptFinance, rbac.DeptJuridique))
		})
	})
})
