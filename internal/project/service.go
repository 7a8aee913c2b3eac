package project

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/portal-labs/project-portal/internal"
	projectDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/project"
	"github.com/portal-labs/project-portal/internal/core/events"
	"github.com/portal-labs/project-portal/internal/rbac"
)

type Repository interface {
	Create(p *projectDatamodel.Project) error
	GetByID(id int64) (*projectDatamodel.Project, error)
	GetByNumber(number string) (*projectDatamodel.Project, error)
	List(filter ListProjectsFilter) ([]*projectDatamodel.Project, int64, error)
	Update(p *projectDatamodel.Project) error
	Delete(id int64) error
	MaxNumberIndex(yearPrefix string) (int, error)
	GetTeamIDs(projectID int64) ([]int64, error)
	AddTeamMember(projectID, userID int64) error
	RemoveTeamMember(projectID, userID int64) error
	ListOverdue(now time.Time) ([]*projectDatamodel.Project, error)
	CreateComment(c *projectDatamodel.ProjectComment) error
	GetCommentByID(id int64) (*projectDatamodel.ProjectComment, error)
	ListComments(projectID int64) ([]*projectDatamodel.ProjectComment, error)
	DeleteComment(id int64) error
	CreateAttachment(a *projectDatamodel.ProjectAttachment) error
	ListAttachments(projectID int64) ([]*projectDatamodel.ProjectAttachment, error)
	DeleteAttachment(id int64) error
}

// DepartmentAccess resolves the explicit department rows for an actor.
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

// Create opens a new project in the given department. The caller needs
// create access there, either explicit or via their home department.
func (s *Service) Create(actor *rbac.Actor, dto CreateProjectDTO) (*Project, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if !rbac.CanCreateDepartment(actor, s.grantsFor(actor), dto.Department) {
		s.logger.Warn("project creation denied",
			"user_id", actor.ID, "department", dto.Department)
		return nil, apperrors.ErrAccessDenied
	}

	number, err := s.nextProjectNumber()
	if err != nil {
		return nil, err
	}

	priority := dto.Priority
	if priority == "" {
		priority = PriorityMoyen
	}
	category := dto.Category
	if category == "" {
		category = CategoryOther
	}

	dm := &projectDatamodel.Project{
		ProjectNumber: number,
		Name:          dto.Name,
		Description:   dto.Description,
		Status:        StatusPlanification,
		Priority:      priority,
		Category:      category,
		Department:    dto.Department,
		ManagerID:     dto.ManagerID,
		StartDate:     dto.StartDate,
		EndDate:       dto.EndDate,
		Budget:        dto.Budget,
		Tags:          dto.Tags,
		Notes:         dto.Notes,
	}

	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create project", "error", err, "name", dto.Name)
		return nil, err
	}

	for _, userID := range dto.TeamIDs {
		if err := s.repo.AddTeamMember(dm.ID, userID); err != nil {
			s.logger.Error("failed to add team member", "error", err,
				"project_id", dm.ID, "user_id", userID)
			return nil, err
		}
	}

	s.logger.Info("project created",
		"project_id", dm.ID,
		"project_number", dm.ProjectNumber,
		"department", dm.Department,
		"manager_id", dm.ManagerID)

	return s.loadProject(dm)
}

func (s *Service) nextProjectNumber() (string, error) {
	year := time.Now().Year()
	maxIndex, err := s.repo.MaxNumberIndex(ProjectNumberPrefix(year))
	if err != nil {
		return "", err
	}
	return FormatProjectNumber(year, maxIndex+1), nil
}

func (s *Service) loadProject(dm *projectDatamodel.Project) (*Project, error) {
	p := FromDataModel(dm)
	teamIDs, err := s.repo.GetTeamIDs(dm.ID)
	if err != nil {
		return nil, err
	}
	p.TeamIDs = teamIDs
	return p, nil
}

func (s *Service) GetByID(actor *rbac.Actor, id int64) (*Project, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, apperrors.ErrProjectNotFound
	}

	if !rbac.CanViewDepartment(actor, s.grantsFor(actor), dm.Department) {
		return nil, apperrors.ErrAccessDenied
	}

	return s.loadProject(dm)
}

// List returns projects scoped to the departments the actor can see.
// Admin-class actors see everything.
func (s *Service) List(actor *rbac.Actor, filter ListProjectsFilter) (*ProjectsResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if !rbac.IsAdminActor(actor) {
		accessible := rbac.AccessibleDepartments(actor, s.grantsFor(actor))
		if len(accessible) == 0 {
			return &ProjectsResponse{Projects: []*Project{}}, nil
		}
		filter.Departments = accessible
	}

	rows, total, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		return nil, err
	}

	return &ProjectsResponse{Projects: FromDataModelSlice(rows), Total: total}, nil
}

func (s *Service) Update(actor *rbac.Actor, id int64, dto UpdateProjectDTO) (*Project, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, apperrors.ErrProjectNotFound
	}

	if !rbac.CanModifyProject(rbac.ProjectRef{ManagerID: dm.ManagerID}, actor) {
		return nil, apperrors.ErrAccessDenied
	}
	if !rbac.CanEditDepartment(actor, s.grantsFor(actor), dm.Department) {
		return nil, apperrors.ErrAccessDenied
	}

	oldStatus := dm.Status

	if dto.Name != nil {
		dm.Name = *dto.Name
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
	if dto.Category != nil {
		dm.Category = *dto.Category
	}
	if dto.ManagerID != nil {
		dm.ManagerID = *dto.ManagerID
	}
	if dto.StartDate != nil {
		dm.StartDate = dto.StartDate
	}
	if dto.EndDate != nil {
		dm.EndDate = dto.EndDate
	}
	if dto.Budget != nil {
		dm.Budget = *dto.Budget
	}
	if dto.Spent != nil {
		dm.Spent = *dto.Spent
	}
	if dto.Progress != nil {
		dm.Progress = *dto.Progress
	}
	if dto.Tags != nil {
		dm.Tags = dto.Tags
	}
	if dto.Notes != nil {
		dm.Notes = *dto.Notes
	}
	if dm.Status == StatusTermine && dm.CompletedDate == nil {
		now := time.Now()
		dm.CompletedDate = &now
	}
	dm.UpdatedAt = time.Now()

	if err := s.repo.Update(dm); err != nil {
		s.logger.Error("failed to update project", "error", err, "project_id", id)
		return nil, err
	}

	if dm.Status != oldStatus {
		event := events.NewProjectStatusChangedEvent(dm.ID, dm.ProjectNumber, oldStatus, dm.Status, actor.ID)
		if err := s.eventBus.Publish(context.Background(), event); err != nil {
			s.logger.Error("failed to publish project status event", "error", err, "project_id", id)
		}
	}

	s.logger.Info("project updated", "project_id", id, "requester_id", actor.ID)
	return s.loadProject(dm)
}

// Delete requires explicit delete access on the department. The home
// department fallback does not apply to deletion.
func (s *Service) Delete(actor *rbac.Actor, id int64) error {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if dm == nil {
		return apperrors.ErrProjectNotFound
	}

	if !rbac.CanDeleteDepartment(actor, s.grantsFor(actor), dm.Department) {
		s.logger.Warn("project deletion denied",
			"user_id", actor.ID, "project_id", id, "department", dm.Department)
		return apperrors.ErrAccessDenied
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete project", "error", err, "project_id", id)
		return err
	}

	s.logger.Info("project deleted", "project_id", id, "project_number", dm.ProjectNumber, "requester_id", actor.ID)
	return nil
}

func (s *Service) AddTeamMember(actor *rbac.Actor, projectID, userID int64) error {
	dm, err := s.repo.GetByID(projectID)
	if err != nil {
		return err
	}
	if dm == nil {
		return apperrors.ErrProjectNotFound
	}

	if !rbac.CanModifyProject(rbac.ProjectRef{ManagerID: dm.ManagerID}, actor) {
		return apperrors.ErrAccessDenied
	}

	if err := s.repo.AddTeamMember(projectID, userID); err != nil {
		s.logger.Error("failed to add team member", "error", err, "project_id", projectID, "user_id", userID)
		return err
	}

	s.logger.Info("team member added", "project_id", projectID, "user_id", userID)
	return nil
}

func (s *Service) RemoveTeamMember(actor *rbac.Actor, projectID, userID int64) error {
	dm, err := s.repo.GetByID(projectID)
	if err != nil {
		return err
	}
	if dm == nil {
		return apperrors.ErrProjectNotFound
	}

	if !rbac.CanModifyProject(rbac.ProjectRef{ManagerID: dm.ManagerID}, actor) {
		return apperrors.ErrAccessDenied
	}

	if err := s.repo.RemoveTeamMember(projectID, userID); err != nil {
		s.logger.Error("failed to remove team member", "error", err, "project_id", projectID, "user_id", userID)
		return err
	}

	s.logger.Info("team member removed", "project_id", projectID, "user_id", userID)
	return nil
}

// MarkOverdue flips open projects past their end date to en_retard. The
// worker runs this periodically.
func (s *Service) MarkOverdue() (int, error) {
	now := time.Now()
	rows, err := s.repo.ListOverdue(now)
	if err != nil {
		s.logger.Error("failed to scan for overdue projects", "error", err)
		return 0, err
	}

	marked := 0
	for _, dm := range rows {
		p := FromDataModel(dm)
		if !p.IsOverdue(now) || dm.Status == StatusEnRetard {
			continue
		}
		oldStatus := dm.Status
		dm.Status = StatusEnRetard
		dm.UpdatedAt = now
		if err := s.repo.Update(dm); err != nil {
			s.logger.Error("failed to mark project overdue", "error", err, "project_id", dm.ID)
			continue
		}
		marked++

		event := events.NewProjectStatusChangedEvent(dm.ID, dm.ProjectNumber, oldStatus, StatusEnRetard, 0)
		if err := s.eventBus.Publish(context.Background(), event); err != nil {
			s.logger.Error("failed to publish overdue event", "error", err, "project_id", dm.ID)
		}
	}

	if marked > 0 {
		s.logger.Info("projects marked overdue", "count", marked)
	}
	return marked, nil
}

func (s *Service) AddComment(actor *rbac.Actor, projectID int64, dto CreateCommentDTO) (*Comment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, err := s.repo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, apperrors.ErrProjectNotFound
	}

	if !rbac.CanViewDepartment(actor, s.grantsFor(actor), dm.Department) {
		return nil, apperrors.ErrAccessDenied
	}

	comment := &projectDatamodel.ProjectComment{
		ProjectID: projectID,
		AuthorID:  actor.ID,
		Content:   dto.Content,
	}
	if err := s.repo.CreateComment(comment); err != nil {
		s.logger.Error("failed to create comment", "error", err, "project_id", projectID)
		return nil, err
	}

	return CommentFromDataModel(comment), nil
}

func (s *Service) ListComments(actor *rbac.Actor, projectID int64) ([]*Comment, error) {
	dm, err := s.repo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, apperrors.ErrProjectNotFound
	}

	if !rbac.CanViewDepartment(actor, s.grantsFor(actor), dm.Department) {
		return nil, apperrors.ErrAccessDenied
	}

	rows, err := s.repo.ListComments(projectID)
	if err != nil {
		return nil, err
	}
	return CommentsFromDataModelSlice(rows), nil
}

// DeleteComment allows the author and admin-class actors.
func (s *Service) DeleteComment(actor *rbac.Actor, commentID int64) error {
	comment, err := s.repo.GetCommentByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperrors.ErrCommentNotFound
	}

	if !rbac.CanModifyComment(comment.AuthorID, actor) {
		return apperrors.ErrAccessDenied
	}

	if err := s.repo.DeleteComment(commentID); err != nil {
		s.logger.Error("failed to delete comment", "error", err, "comment_id", commentID)
		return err
	}

	return nil
}

func (s *Service) AddAttachment(actor *rbac.Actor, projectID int64, dto AddAttachmentDTO) (*Attachment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, err := s.repo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, apperrors.ErrProjectNotFound
	}

	if !rbac.CanViewDepartment(actor, s.grantsFor(actor), dm.Department) {
		return nil, apperrors.ErrAccessDenied
	}

	attachment := &projectDatamodel.ProjectAttachment{
		ProjectID:  projectID,
		UploaderID: actor.ID,
		FileName:   dto.FileName,
		FileURL:    dto.FileURL,
		FileSize:   dto.FileSize,
	}
	if err := s.repo.CreateAttachment(attachment); err != nil {
		s.logger.Error("failed to create attachment", "error", err, "project_id", projectID)
		return nil, err
	}

	return AttachmentFromDataModel(attachment), nil
}

func (s *Service) ListAttachments(actor *rbac.Actor, projectID int64) ([]*Attachment, error) {
	dm, err := s.repo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, apperrors.ErrProjectNotFound
	}

	if !rbac.CanViewDepartment(actor, s.grantsFor(actor), dm.Department) {
		return nil, apperrors.ErrAccessDenied
	}

	rows, err := s.repo.ListAttachments(projectID)
	if err != nil {
		return nil, err
	}
	return AttachmentsFromDataModelSlice(rows), nil
}
