package rbac_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/portal-labs/project-portal/internal/rbac"
)

var _ = Describe("Department scope resolver", func() {
	var finance *rbac.Actor

	BeforeEach(func() {
		finance = &rbac.Actor{ID: 10, Username: "fatima", Role: rbac.RoleUser, Department: rbac.DeptFinance}
	})

	Context("with no explicit grant rows", func() {
		It("falls back to the home department for view, edit and create", func() {
			Expect(rbac.CanViewDepartment(finance, nil, rbac.DeptFinance)).To(BeTrue())
			Expect(rbac.CanEditDepartment(finance, nil, rbac.DeptFinance)).To(BeTrue())
			Expect(rbac.CanCreateDepartment(finance, nil, rbac.DeptFinance)).To(BeTrue())
		})

		It("denies other departments", func() {
			Expect(rbac.CanViewDepartment(finance, nil, rbac.DeptJuridique)).To(BeFalse())
			Expect(rbac.CanEditDepartment(finance, nil, rbac.DeptComptabilite)).To(BeFalse())
		})

		It("never grants delete implicitly, even for the home department", func() {
			Expect(rbac.CanViewDepartment(finance, nil, rbac.DeptFinance)).To(BeTrue())
			Expect(rbac.CanDeleteDepartment(finance, nil, rbac.DeptFinance)).To(BeFalse())
		})
	})

	Context("with explicit grant rows", func() {
		It("answers from the row, overriding the home-department fallback", func() {
			grants := []rbac.DepartmentGrant{
				{Department: rbac.DeptFinance, CanView: true, CanEdit: false, CanCreate: false},
			}
			Expect(rbac.CanViewDepartment(finance, grants, rbac.DeptFinance)).To(BeTrue())
			// An explicit row that withholds edit beats the home-department
			// implicit grant.
			Expect(rbac.CanEditDepartment(finance, grants, rbac.DeptFinance)).To(BeFalse())
		})

		It("grants access to foreign departments through rows", func() {
			grants := []rbac.DepartmentGrant{
				{Department: rbac.DeptJuridique, CanView: true, CanEdit: true},
			}
			Expect(rbac.CanViewDepartment(finance, grants, rbac.DeptJuridique)).To(BeTrue())
			Expect(rbac.CanEditDepartment(finance, grants, rbac.DeptJuridique)).To(BeTrue())
			Expect(rbac.CanCreateDepartment(finance, grants, rbac.DeptJuridique)).To(BeFalse())
		})

		It("requires an explicit can_delete for delete", func() {
			grants := []rbac.DepartmentGrant{
				{Department: rbac.DeptFinance, CanView: true, CanEdit: true, CanCreate: true, CanDelete: false},
				{Department: rbac.DeptJuridique, CanDelete: true},
			}
			Expect(rbac.CanDeleteDepartment(finance, grants, rbac.DeptFinance)).To(BeFalse())
			Expect(rbac.CanDeleteDepartment(finance, grants, rbac.DeptJuridique)).To(BeTrue())
		})
	})

	It("allows every department for admin-class actors", func() {
		admin := &rbac.Actor{ID: 1, Role: rbac.RoleAdmin}
		for _, dept := range rbac.Departments() {
			Expect(rbac.CanViewDepartment(admin, nil, dept)).To(BeTrue(), dept)
			Expect(rbac.CanDeleteDepartment(admin, nil, dept)).To(BeTrue(), dept)
		}
	})

	It("denies a nil actor everywhere", func() {
		Expect(rbac.CanViewDepartment(nil, nil, rbac.DeptFinance)).To(BeFalse())
		Expect(rbac.CanDeleteDepartment(nil, nil, rbac.DeptFinance)).To(BeFalse())
	})
})

var _ = Describe("AccessibleDepartments", func() {
	It("unions the home department with explicit view grants", func() {
		actor := &rbac.Actor{ID: 11, Role: rbac.RoleUser, Department: rbac.DeptFinance}
		grants := []rbac.DepartmentGrant{
			{Department: rbac.DeptJuridique, CanView: true},
			{Department: rbac.DeptComptabilite, CanView: false, CanEdit: true},
		}
		Expect(rbac.AccessibleDepartments(actor, grants)).To(ConsistOf(rbac.DeptFinance, rbac.DeptJuridique))
	})

	It("does not duplicate the home department", func() {
		actor := &rbac.Actor{ID: 12, Role: rbac.RoleUser, Department: rbac.DeptFinance}
		grants := []rbac.DepartmentGrant{{Department: rbac.DeptFinance, CanView: true}}
		Expect(rbac.AccessibleDepartments(actor, grants)).To(Equal([]string{rbac.DeptFinance}))
	})

	It("is empty for a user with no department and no grants", func() {
		actor := &rbac.Actor{ID: 13, Role: rbac.RoleUser}
		Expect(rbac.AccessibleDepartments(actor, nil)).To(BeEmpty())
	})

	It("returns every department for superusers", func() {
		super := &rbac.Actor{ID: 14, IsSuperuser: true}
		Expect(rbac.AccessibleDepartments(super, nil)).To(Equal(rbac.Departments()))
	})
})
