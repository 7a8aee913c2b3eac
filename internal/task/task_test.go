package task

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("FormatTaskNumber", func() {
	ginkgo.It("zero-pads single digit indexes", func() {
		gomega.Expect(FormatTaskNumber(2025, 3)).To(gomega.Equal("tsk-25-03"))
	})

	ginkgo.It("leaves larger indexes unpadded", func() {
		gomega.Expect(FormatTaskNumber(2025, 14)).To(gomega.Equal("tsk-25-14"))
	})

	ginkgo.It("shares its year prefix with the index scan", func() {
		gomega.Expect(TaskNumberPrefix(2025)).To(gomega.Equal("tsk-25-"))
	})
})
