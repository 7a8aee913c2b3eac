package role

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/portal-labs/project-portal/internal/transport"
	"github.com/portal-labs/project-portal/pkg/logger"
)

type ServiceAPI interface {
	ListRoles() ([]*Role, error)
	GetRole(id int64) (*Role, error)
	CreateRole(dto CreateRoleDTO) (*Role, error)
	UpdateRole(id int64, dto UpdateRoleDTO) (*Role, error)
	DeleteRole(id int64) error
	SetPermissions(roleID int64, codenames []string) error
	AddPermission(roleID int64, codename string) error
	RemovePermission(roleID int64, codename string) error
	ListPermissions() ([]*Permission, error)
	ListPermissionsGrouped() ([]*PermissionGroup, error)
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

func (h *Handler) roleID(r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListRoles()
	if err != nil {
		h.Logger.Error("ListRoles: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RolesResponse{Roles: roles})
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	role, err := h.Service.GetRole(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := h.Service.CreateRole(dto)
	if err != nil {
		h.Logger.Error("CreateRole: service error", "error", err, "name", dto.Name)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, role)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	var dto UpdateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := h.Service.UpdateRole(id, dto)
	if err != nil {
		h.Logger.Error("UpdateRole: service error", "error", err, "role_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	if err := h.Service.DeleteRole(id); err != nil {
		h.Logger.Error("DeleteRole: service error", "error", err, "role_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetPermissions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	var dto SetPermissionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.SetPermissions(id, dto.Permissions); err != nil {
		h.Logger.Error("SetPermissions: service error", "error", err, "role_id", id)
		h.HandleServiceError(w, err)
		return
	}

	role, err := h.Service.GetRole(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) AddPermission(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	codename := chi.URLParam(r, "codename")
	if err := h.Service.AddPermission(id, codename); err != nil {
		h.Logger.Error("AddPermission: service error", "error", err, "role_id", id, "codename", codename)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemovePermission(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	codename := chi.URLParam(r, "codename")
	if err := h.Service.RemovePermission(id, codename); err != nil {
		h.Logger.Error("RemovePermission: service error", "error", err, "role_id", id, "codename", codename)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grouped") == "true" {
		groups, err := h.Service.ListPermissionsGrouped()
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, groups)
		return
	}

	perms, err := h.Service.ListPermissions()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, PermissionsResponse{Permissions: perms})
}
