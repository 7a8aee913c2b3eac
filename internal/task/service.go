package task

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/portal-labs/project-portal/internal"
	taskDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/task"
	"github.com/portal-labs/project-portal/internal/core/events"
	"github.com/portal-labs/project-portal/internal/project"
	"github.com/portal-labs/project-portal/internal/rbac"
)

// ProjectHeader is the slice of the parent project the task guards need.
type ProjectHeader struct {
	ID         int64
	Department string
	ManagerID  int64
}

type Repository interface {
	Create(t *taskDatamodel.Task) error
	GetByID(id int64) (*taskDatamodel.Task, error)
	GetByNumber(number string) (*taskDatamodel.Task, error)
	List(filter ListTasksFilter) ([]*taskDatamodel.Task, int64, error)
	Update(t *taskDatamodel.Task) error
	Delete(id int64) error
	MaxNumberIndex(yearPrefix string) (int, error)
	ProjectHeader(projectID int64) (*ProjectHeader, error)
	ListDueWithin(from, until time.Time) ([]*taskDatamodel.Task, error)
}

type DepartmentAccess interface {
	AccessGrantsFor(userID int64) ([]rbac.DepartmentGrant, error)
}

type Service struct {
	repo       Repository
	deptAccess DepartmentAccess
	eventBus   *events.EventBus
	logger     *slog.Logger
}

func NewService(repo Repository, deptAccess DepartmentAccess, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		deptAccess: deptAccess,
		eventBus:   eventBus,
		logger:     logger,
	}
}

func (s *Service) grantsFor(actor *rbac.Actor) []rbac.DepartmentGrant {
	grants, err := s.deptAccess.AccessGrantsFor(actor.ID)
	if err != nil {
		s.logger.Warn("failed to load department grants, denying fallback rows",
			"error", err, "user_id", actor.ID)
		return nil
	}
	return grants
}

// header loads the parent project slice or reports the project missing.
func (s *Service) header(projectID int64) (*ProjectHeader, error) {
	h, err := s.repo.ProjectHeader(projectID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	return h, nil
}

// Create opens a task under a project the actor can see. The actor becomes
// the reporter.
func (s *Service) Create(actor *rbac.Actor, dto CreateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	h, err := s.header(dto.ProjectID)
	if err != nil {
		return nil, err
	}

	if !rbac.HasPermission(actor, rbac.PermTaskCreate) {
		return nil, apperrors.ErrAccessDenied
	}
	if !rbac.CanViewDepartment(actor, s.grantsFor(actor), h.Department) {
		return nil, apperrors.ErrAccessDenied
	}

	number, err := s.nextTaskNumber()
	if err != nil {
		return nil, err
	}

	priority := dto.Priority
	if priority == "" {
		priority = project.PriorityMoyen
	}
	taskType := dto.TaskType
	if taskType == "" {
		taskType = TypeTask
	}

	dm := &taskDatamodel.Task{
		TaskNumber:    number,
		ProjectID:     dto.ProjectID,
		Title:         dto.Title,
		Description:   dto.Description,
		Status:        StatusNotStarted,
		Priority:      priority,
		TaskType:      taskType,
		AssigneeID:    dto.AssigneeID,
		ReporterID:    actor.ID,
		DueDate:       dto.DueDate,
		EstimatedTime: dto.EstimatedTime,
		Tags:          dto.Tags,
		Notes:         dto.Notes,
	}

	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create task", "error", err, "title", dto.Title)
		return nil, err
	}

	s.logger.Info("task created",
		"task_id", dm.ID,
		"task_number", dm.TaskNumber,
		"project_id", dm.ProjectID,
		"reporter_id", actor.ID)

	if dm.AssigneeID != nil {
		s.publishAssigned(dm, actor.ID)
	}

	return FromDataModel(dm), nil
}

func (s *Service) nextTaskNumber() (string, error) {
	year := time.Now().Year()
	maxIndex, err := s.repo.MaxNumberIndex(TaskNumberPrefix(year))
	if err != nil {
		return "", err
	}
	return FormatTaskNumber(year, maxIndex+1), nil
}

func (s *Service) publishAssigned(dm *taskDatamodel.Task, assignedBy int64) {
	event := events.NewTaskAssignedEvent(dm.ID, dm.TaskNumber, dm.Title, *dm.AssigneeID, assignedBy)
	if err := s.eventBus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish task assigned event", "error", err, "task_id", dm.ID)
	}
}

func (s *Service) GetByID(actor *rbac.Actor, id int64) (*Task, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, apperrors.ErrTaskNotFound
	}

	h, err := s.header(dm.ProjectID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanViewDepartment(actor, s.grantsFor(actor), h.Department) {
		return nil, apperrors.ErrAccessDenied
	}

	return FromDataModel(dm), nil
}

// List returns tasks scoped to the departments the actor can see.
func (s *Service) List(actor *rbac.Actor, filter ListTasksFilter) (*TasksResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if !rbac.IsAdminActor(actor) {
		accessible := rbac.AccessibleDepartments(actor, s.grantsFor(actor))
		if len(accessible) == 0 {
			return &TasksResponse{Tasks: []*Task{}}, nil
		}
		filter.Departments = accessible
	}

	rows, total, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, err
	}

	return &TasksResponse{Tasks: FromDataModelSlice(rows), Total: total}, nil
}

// Update applies partial changes. Moving to completed stamps the completion
// date and announces it; moving away clears the stamp.
func (s *Service) Update(actor *rbac.Actor, id int64, dto UpdateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, h, err := s.getGuarded(actor, id)
	if err != nil {
		return nil, err
	}

	oldStatus := dm.Status

	if dto.Title != nil {
		dm.Title = *dto.Title
	}
	if dto.Description != nil {
		dm.Description = *dto.Description
	}
	if dto.Status != nil {
		dm.Status = *dto.Status
	}
	if dto.Priority != nil {
		dm.Priority = *dto.Priority
	}
	if dto.TaskType != nil {
		dm.TaskType = *dto.TaskType
	}
	if dto.DueDate != nil {
		dm.DueDate = dto.DueDate
	}
	if dto.Tags != nil {
		dm.Tags = dto.Tags
	}
	if dto.Notes != nil {
		dm.Notes = *dto.Notes
	}

	if dm.Status != oldStatus {
		if dm.Status == StatusCompleted {
			now := time.Now()
			dm.CompletedDate = &now
		} else if oldStatus == StatusCompleted {
			dm.CompletedDate = nil
		}
	}
	dm.UpdatedAt = time.Now()

	if err := s.repo.Update(dm); err != nil {
		s.logger.Error("failed to update task", "error", err, "task_id", id)
		return nil, err
	}

	if dm.Status == StatusCompleted && oldStatus != StatusCompleted {
		event := events.NewTaskCompletedEvent(dm.ID, dm.TaskNumber, dm.Title, h.ID, actor.ID)
		if err := s.eventBus.Publish(context.Background(), event); err != nil {
			s.logger.Error("failed to publish task completed event", "error", err, "task_id", id)
		}
	}

	s.logger.Info("task updated", "task_id", id, "requester_id", actor.ID)
	return FromDataModel(dm), nil
}

// Assign hands a task to a user, or parks it when assigneeID is nil.
func (s *Service) Assign(actor *rbac.Actor, id int64, assigneeID *int64) (*Task, error) {
	dm, _, err := s.getGuarded(actor, id)
	if err != nil {
		return nil, err
	}

	dm.AssigneeID = assigneeID
	dm.UpdatedAt = time.Now()

	if err := s.repo.Update(dm); err != nil {
		s.logger.Error("failed to assign task", "error", err, "task_id", id)
		return nil, err
	}

	if assigneeID != nil {
		s.publishAssigned(dm, actor.ID)
		s.logger.Info("task assigned", "task_id", id, "assignee_id", *assigneeID, "assigned_by", actor.ID)
	} else {
		s.logger.Info("task unassigned", "task_id", id, "requester_id", actor.ID)
	}

	return FromDataModel(dm), nil
}

// TrackTime updates the hour counters on a task.
func (s *Service) TrackTime(actor *rbac.Actor, id int64, dto TrackTimeDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, _, err := s.getGuarded(actor, id)
	if err != nil {
		return nil, err
	}

	if dto.EstimatedTime != nil {
		dm.EstimatedTime = *dto.EstimatedTime
	}
	if dto.ActualTime != nil {
		dm.ActualTime = *dto.ActualTime
	}
	dm.UpdatedAt = time.Now()

	if err := s.repo.Update(dm); err != nil {
		s.logger.Error("failed to track time", "error", err, "task_id", id)
		return nil, err
	}

	return FromDataModel(dm), nil
}

// Delete removes a task. Only admin-class actors and the parent project's
// manager may delete; the assignee may not.
func (s *Service) Delete(actor *rbac.Actor, id int64) error {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if dm == nil {
		return apperrors.ErrTaskNotFound
	}

	h, err := s.header(dm.ProjectID)
	if err != nil {
		return err
	}

	if !rbac.IsAdminActor(actor) && h.ManagerID != actor.ID {
		s.logger.Warn("task deletion denied", "user_id", actor.ID, "task_id", id)
		return apperrors.ErrAccessDenied
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete task", "error", err, "task_id", id)
		return err
	}

	s.logger.Info("task deleted", "task_id", id, "task_number", dm.TaskNumber, "requester_id", actor.ID)
	return nil
}

// getGuarded loads the task and its project header and runs the modify guard.
func (s *Service) getGuarded(actor *rbac.Actor, id int64) (*taskDatamodel.Task, *ProjectHeader, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if dm == nil {
		return nil, nil, apperrors.ErrTaskNotFound
	}

	h, err := s.header(dm.ProjectID)
	if err != nil {
		return nil, nil, err
	}

	ref := rbac.TaskRef{AssigneeID: dm.AssigneeID, ProjectManagerID: h.ManagerID}
	if !rbac.CanModifyTask(ref, actor) {
		return nil, nil, apperrors.ErrAccessDenied
	}

	return dm, h, nil
}

// PublishDueSoon scans for assigned open tasks due within the window and
// announces each one. The worker runs this periodically.
func (s *Service) PublishDueSoon(window time.Duration) (int, error) {
	now := time.Now()
	rows, err := s.repo.ListDueWithin(now, now.Add(window))
	if err != nil {
		s.logger.Error("failed to scan for approaching deadlines", "error", err)
		return 0, err
	}

	published := 0
	for _, dm := range rows {
		if dm.AssigneeID == nil || dm.DueDate == nil {
			continue
		}
		event := events.NewDeadlineApproachingEvent(dm.ID, dm.TaskNumber, dm.Title, *dm.AssigneeID, *dm.DueDate)
		if err := s.eventBus.Publish(context.Background(), event); err != nil {
			s.logger.Error("failed to publish deadline event", "error", err, "task_id", dm.ID)
			continue
		}
		published++
	}

	if published > 0 {
		s.logger.Info("deadline reminders published", "count", published)
	}
	return published, nil
}
