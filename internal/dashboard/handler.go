package dashboard

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/portal-labs/project-portal/internal/auth"
	"github.com/portal-labs/project-portal/internal/rbac"
	"github.com/portal-labs/project-portal/internal/transport"
	"github.com/portal-labs/project-portal/pkg/logger"
)

type ServiceAPI interface {
	Overview(actor *rbac.Actor) (*Overview, error)
	ProjectStats(actor *rbac.Actor) (*ProjectStats, error)
	TaskStats(actor *rbac.Actor) (*TaskStats, error)
	DepartmentStats(actor *rbac.Actor) ([]DepartmentStats, error)
	RecentActivity(actor *rbac.Actor, limit int) ([]ActivityEntry, error)
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

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*rbac.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return actor, true
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	overview, err := h.Service.Overview(actor)
	if err != nil {
		h.Logger.Error("GetOverview: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, overview)
}

func (h *Handler) GetProjectStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	stats, err := h.Service.ProjectStats(actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetTaskStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	stats, err := h.Service.TaskStats(actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetDepartmentStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	rollup, err := h.Service.DepartmentStats(actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"departments": rollup})
}

func (h *Handler) GetRecentActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	entries, err := h.Service.RecentActivity(actor, limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"activity": entries})
}
