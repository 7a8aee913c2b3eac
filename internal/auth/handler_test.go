package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/portal-labs/project-portal/internal/rbac"
)

var _ = ginkgo.Describe("Me handler", func() {
	var handler *Handler

	ginkgo.BeforeEach(func() {
		handler = NewHandler(nil)
	})

	callMe := func(actor *rbac.Actor) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		if actor != nil {
			req = req.WithContext(context.WithValue(req.Context(), ContextUserKey, actor))
		}
		rec := httptest.NewRecorder()
		handler.Me(rec, req)
		return rec
	}

	ginkgo.It("returns the actor with its effective permission union", func() {
		actor := &rbac.Actor{
			ID:         3,
			Username:   "jdupont",
			Role:       rbac.RoleDeveloper,
			Department: rbac.DeptFinance,
			CustomRoles: []rbac.RoleGrant{
				{Name: "Exportateur", Permissions: []string{rbac.PermReportGenerate}},
			},
		}

		rec := callMe(actor)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

		var resp MeResponse
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
		gomega.Expect(resp.Username).To(gomega.Equal("jdupont"))
		gomega.Expect(resp.Permissions).To(gomega.ContainElements(
			rbac.PermProjectView, rbac.PermTaskCreate, rbac.PermReportGenerate))
		gomega.Expect(resp.Permissions).NotTo(gomega.ContainElement(rbac.PermProjectDelete))
	})

	ginkgo.It("returns the full catalog for superusers", func() {
		rec := callMe(&rbac.Actor{ID: 1, Username: "admin", Role: rbac.RoleAdmin, IsSuperuser: true})
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

		var resp MeResponse
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
		gomega.Expect(resp.Permissions).To(gomega.HaveLen(len(rbac.AllPermissionCodes())))
	})

	ginkgo.It("rejects requests without an actor in context", func() {
		rec := callMe(nil)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})
})
