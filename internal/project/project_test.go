package project

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("FormatProjectNumber", func() {
	ginkgo.It("zero-pads single digit indexes", func() {
		gomega.Expect(FormatProjectNumber(2025, 1)).To(gomega.Equal("prj-25-01"))
		gomega.Expect(FormatProjectNumber(2025, 9)).To(gomega.Equal("prj-25-09"))
	})

	ginkgo.It("leaves larger indexes unpadded", func() {
		gomega.Expect(FormatProjectNumber(2025, 12)).To(gomega.Equal("prj-25-12"))
		gomega.Expect(FormatProjectNumber(2026, 120)).To(gomega.Equal("prj-26-120"))
	})

	ginkgo.It("shares its year prefix with the index scan", func() {
		gomega.Expect(ProjectNumberPrefix(2025)).To(gomega.Equal("prj-25-"))
	})
})
