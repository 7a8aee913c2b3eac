package rbac_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/portal-labs/project-portal/internal/rbac"
)

var _ = Describe("Permission catalog", func() {
	It("lists categories in a stable order starting with users", func() {
		cats := rbac.Categories()
		Expect(cats).NotTo(BeEmpty())
		Expect(cats[0].Code).To(Equal(rbac.CategoryUsers))
		Expect(cats[0].Label).To(Equal("Users"))
	})

	It("filters entries by category", func() {
		entries := rbac.CatalogByCategory(rbac.CategoryProjects)
		Expect(entries).To(HaveLen(4))
		for _, e := range entries {
			Expect(e.Category).To(Equal(rbac.CategoryProjects))
		}
	})

	It("returns empty for unknown categories without erroring", func() {
		Expect(rbac.CatalogByCategory("astrology")).To(BeEmpty())
	})

	It("has unique codes across the whole catalog", func() {
		seen := map[string]bool{}
		for _, e := range rbac.Catalog() {
			Expect(seen[e.Code]).To(BeFalse(), e.Code)
			seen[e.Code] = true
		}
	})

	It("recognizes known and unknown codes", func() {
		Expect(rbac.IsKnownPermission(rbac.PermProjectView)).To(BeTrue())
		Expect(rbac.IsKnownPermission("project:transmogrify")).To(BeFalse())
	})
})
