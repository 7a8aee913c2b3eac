package notification

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
	ListForUser(actor *rbac.Actor, limit, offset int) ([]*Notification, int64, error)
	ResendFailed(actor *rbac.Actor) (int, error)
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

func (h *Handler) ListMyNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	limit := 0
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil {
			offset = o
		}
	}

	rows, total, err := h.Service.ListForUser(actor, limit, offset)
	if err != nil {
		h.Logger.Error("ListMyNotifications: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": rows,
		"total":         total,
	})
}

func (h *Handler) ResendFailed(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	resent, err := h.Service.ResendFailed(actor)
	if err != nil {
		h.Logger.Error("ResendFailed: service error", "error", err, "requester_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"resent": resent})
}
