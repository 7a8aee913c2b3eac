package task

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
	Create(actor *rbac.Actor, dto CreateTaskDTO) (*Task, error)
	GetByID(actor *rbac.Actor, id int64) (*Task, error)
	List(actor *rbac.Actor, filter ListTasksFilter) (*TasksResponse, error)
	Update(actor *rbac.Actor, id int64, dto UpdateTaskDTO) (*Task, error)
	Assign(actor *rbac.Actor, id int64, assigneeID *int64) (*Task, error)
	TrackTime(actor *rbac.Actor, id int64, dto TrackTimeDTO) (*Task, error)
	Delete(actor *rbac.Actor, id int64) error
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

func (h *Handler) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto CreateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Create(actor, dto)
	if err != nil {
		h.Logger.Error("CreateTask: service error", "error", err, "requester_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	t, err := h.Service.GetByID(actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	filter := ListTasksFilter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		TaskType: r.URL.Query().Get("type"),
		Search:   r.URL.Query().Get("search"),
	}
	if projectStr := r.URL.Query().Get("project_id"); projectStr != "" {
		if id, err := strconv.ParseInt(projectStr, 10, 64); err == nil {
			filter.ProjectID = id
		}
	}
	if assigneeStr := r.URL.Query().Get("assignee_id"); assigneeStr != "" {
		if id, err := strconv.ParseInt(assigneeStr, 10, 64); err == nil {
			filter.AssigneeID = id
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = o
		}
	}

	resp, err := h.Service.List(actor, filter)
	if err != nil {
		h.Logger.Error("ListTasks: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var dto UpdateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Update(actor, id, dto)
	if err != nil {
		h.Logger.Error("UpdateTask: service error", "error", err, "task_id", id, "requester_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) AssignTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var dto AssignTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Assign(actor, id, dto.AssigneeID)
	if err != nil {
		h.Logger.Error("AssignTask: service error", "error", err, "task_id", id, "requester_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) TrackTime(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var dto TrackTimeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.TrackTime(actor, id, dto)
	if err != nil {
		h.Logger.Error("TrackTime: service error", "error", err, "task_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(actor, id); err != nil {
		h.Logger.Error("DeleteTask: service error", "error", err, "task_id", id, "requester_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
