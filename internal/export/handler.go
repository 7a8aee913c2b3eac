package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/portal-labs/project-portal/internal/auth"
	"github.com/portal-labs/project-portal/internal/project"
	"github.com/portal-labs/project-portal/internal/rbac"
	"github.com/portal-labs/project-portal/internal/task"
	"github.com/portal-labs/project-portal/internal/transport"
	"github.com/portal-labs/project-portal/pkg/logger"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ServiceAPI interface {
	ProjectsCSV(actor *rbac.Actor, filter project.ListProjectsFilter) ([]byte, error)
	ProjectsXLSX(actor *rbac.Actor, filter project.ListProjectsFilter) ([]byte, error)
	TasksCSV(actor *rbac.Actor, filter task.ListTasksFilter) ([]byte, error)
	TasksXLSX(actor *rbac.Actor, filter task.ListTasksFilter) ([]byte, error)
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

func (h *Handler) writeFile(w http.ResponseWriter, contentType, baseName, ext string, data []byte) {
	fileName := fmt.Sprintf("%s_%s.%s", baseName, time.Now().Format("2006-01-02"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("failed to write export body", "error", err)
	}
}

func (h *Handler) ExportProjects(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	filter := project.ListProjectsFilter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
	}

	switch r.URL.Query().Get("format") {
	case "", "xlsx":
		data, err := h.Service.ProjectsXLSX(actor, filter)
		if err != nil {
			h.Logger.Error("ExportProjects: service error", "error", err)
			h.HandleServiceError(w, err)
			return
		}
		h.writeFile(w, contentTypeXLSX, "projets", "xlsx", data)
	case "csv":
		data, err := h.Service.ProjectsCSV(actor, filter)
		if err != nil {
			h.Logger.Error("ExportProjects: service error", "error", err)
			h.HandleServiceError(w, err)
			return
		}
		h.writeFile(w, contentTypeCSV, "projets", "csv", data)
	default:
		h.WriteError(w, http.StatusBadRequest, "unsupported export format")
	}
}

func (h *Handler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	filter := task.ListTasksFilter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
	}

	switch r.URL.Query().Get("format") {
	case "", "xlsx":
		data, err := h.Service.TasksXLSX(actor, filter)
		if err != nil {
			h.Logger.Error("ExportTasks: service error", "error", err)
			h.HandleServiceError(w, err)
			return
		}
		h.writeFile(w, contentTypeXLSX, "taches", "xlsx", data)
	case "csv":
		data, err := h.Service.TasksCSV(actor, filter)
		if err != nil {
			h.Logger.Error("ExportTasks: service error", "error", err)
			h.HandleServiceError(w, err)
			return
		}
		h.writeFile(w, contentTypeCSV, "taches", "csv", data)
	default:
		h.WriteError(w, http.StatusBadRequest, "unsupported export format")
	}
}
