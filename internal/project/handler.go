package project

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
	Create(actor *rbac.Actor, dto CreateProjectDTO) (*Project, error)
	GetByID(actor *rbac.Actor, id int64) (*Project, error)
	List(actor *rbac.Actor, filter ListProjectsFilter) (*ProjectsResponse, error)
	Update(actor *rbac.Actor, id int64, dto UpdateProjectDTO) (*Project, error)
	Delete(actor *rbac.Actor, id int64) error
	AddTeamMember(actor *rbac.Actor, projectID, userID int64) error
	RemoveTeamMember(actor *rbac.Actor, projectID, userID int64) error
	AddComment(actor *rbac.Actor, projectID int64, dto CreateCommentDTO) (*Comment, error)
	ListComments(actor *rbac.Actor, projectID int64) ([]*Comment, error)
	DeleteComment(actor *rbac.Actor, commentID int64) error
	AddAttachment(actor *rbac.Actor, projectID int64, dto AddAttachmentDTO) (*Attachment, error)
	ListAttachments(actor *rbac.Actor, projectID int64) ([]*Attachment, error)
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

func (h *Handler) pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto CreateProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Create(actor, dto)
	if err != nil {
		h.Logger.Error("CreateProject: service error", "error", err, "requester_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, valid := h.pathID(r, "id")
	if !valid {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	p, err := h.Service.GetByID(actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	filter := ListProjectsFilter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		Search:   r.URL.Query().Get("search"),
	}
	if managerStr := r.URL.Query().Get("manager_id"); managerStr != "" {
		if id, err := strconv.ParseInt(managerStr, 10, 64); err == nil {
			filter.ManagerID = id
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
		h.Logger.Error("ListProjects: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, valid := h.pathID(r, "id")
	if !valid {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	var dto UpdateProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Update(actor, id, dto)
	if err != nil {
		h.Logger.Error("UpdateProject: service error", "error", err, "project_id", id, "requester_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, valid := h.pathID(r, "id")
	if !valid {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	if err := h.Service.Delete(actor, id); err != nil {
		h.Logger.Error("DeleteProject: service error", "error", err, "project_id", id, "requester_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, valid := h.pathID(r, "id")
	if !valid {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	var dto TeamMemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.AddTeamMember(actor, id, dto.UserID); err != nil {
		h.Logger.Error("AddTeamMember: service error", "error", err, "project_id", id, "user_id", dto.UserID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, valid := h.pathID(r, "id")
	if !valid {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	userID, valid := h.pathID(r, "userID")
	if !valid {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.Service.RemoveTeamMember(actor, id, userID); err != nil {
		h.Logger.Error("RemoveTeamMember: service error", "error", err, "project_id", id, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, valid := h.pathID(r, "id")
	if !valid {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	var dto CreateCommentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.Service.AddComment(actor, id, dto)
	if err != nil {
		h.Logger.Error("AddComment: service error", "error", err, "project_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, comment)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, valid := h.pathID(r, "id")
	if !valid {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	comments, err := h.Service.ListComments(actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CommentsResponse{Comments: comments})
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	commentID, valid := h.pathID(r, "commentID")
	if !valid {
		h.WriteError(w, http.StatusBadRequest, "invalid comment ID")
		return
	}

	if err := h.Service.DeleteComment(actor, commentID); err != nil {
		h.Logger.Error("DeleteComment: service error", "error", err, "comment_id", commentID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, valid := h.pathID(r, "id")
	if !valid {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	var dto AddAttachmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	attachment, err := h.Service.AddAttachment(actor, id, dto)
	if err != nil {
		h.Logger.Error("AddAttachment: service error", "error", err, "project_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, attachment)
}

func (h *Handler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, valid := h.pathID(r, "id")
	if !valid {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	attachments, err := h.Service.ListAttachments(actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AttachmentsResponse{Attachments: attachments})
}
