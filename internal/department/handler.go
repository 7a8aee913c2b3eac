package department

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/portal-labs/project-portal/internal/auth"
	"github.com/portal-labs/project-portal/internal/rbac"
	"github.com/portal-labs/project-portal/internal/transport"
	"github.com/portal-labs/project-portal/pkg/logger"
)

type ServiceAPI interface {
	ListDepartments() []string
	GrantsForUser(userID int64) ([]*Grant, error)
	GrantsForDepartment(department string) ([]*Grant, error)
	Upsert(userID int64, dto UpsertGrantDTO) (*Grant, error)
	BulkUpdate(userID int64, dto BulkUpdateDTO) ([]*Grant, error)
	Revoke(userID int64, department string) error
	AccessSummaryFor(actor *rbac.Actor) ([]*AccessSummary, error)
	AccessibleDepartments(actor *rbac.Actor) ([]string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) targetUserID(r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, DepartmentsResponse{Departments: h.Service.ListDepartments()})
}

// MyAccess handles GET /departments/access for the calling actor.
func (h *Handler) MyAccess(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summary, err := h.Service.AccessSummaryFor(actor)
	if err != nil {
		h.Logger.Error("MyAccess: service error", "error", err, "user_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetUserGrants(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.targetUserID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	grants, err := h.Service.GrantsForUser(userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, GrantsResponse{Grants: grants})
}

func (h *Handler) GetDepartmentGrants(w http.ResponseWriter, r *http.Request) {
	dept := chi.URLParam(r, "department")

	grants, err := h.Service.GrantsForDepartment(dept)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, GrantsResponse{Grants: grants})
}

func (h *Handler) UpsertGrant(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.targetUserID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var dto UpsertGrantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grant, err := h.Service.Upsert(userID, dto)
	if err != nil {
		h.Logger.Error("UpsertGrant: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, grant)
}

func (h *Handler) BulkUpdateGrants(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.targetUserID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var dto BulkUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grants, err := h.Service.BulkUpdate(userID, dto)
	if err != nil {
		h.Logger.Error("BulkUpdateGrants: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, GrantsResponse{Grants: grants})
}

func (h *Handler) RevokeGrant(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.targetUserID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	dept := chi.URLParam(r, "department")
	if err := h.Service.Revoke(userID, dept); err != nil {
		h.Logger.Error("RevokeGrant: service error", "error", err, "user_id", userID, "department", dept)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
