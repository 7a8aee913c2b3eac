package department

import (
	"log/slog"
	"time"

	apperrors "github.com/portal-labs/project-portal/internal"
	rbacDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/rbac"
	"github.com/portal-labs/project-portal/internal/rbac"
)

type RepositoryAPI interface {
	GetForUser(userID int64) ([]*rbacDatamodel.DepartmentPermission, error)
	GetForUserAndDepartment(userID int64, department string) (*rbacDatamodel.DepartmentPermission, error)
	GetForDepartment(department string) ([]*rbacDatamodel.DepartmentPermission, error)
	Upsert(dm *rbacDatamodel.DepartmentPermission) error
	Delete(userID int64, department string) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ListDepartments() []string {
	return rbac.Departments()
}

func (s *Service) GrantsForUser(userID int64) ([]*Grant, error) {
	rows, err := s.repo.GetForUser(userID)
	if err != nil {
		s.logger.Error("failed to load department grants", "error", err, "user_id", userID)
		return nil, err
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) GrantsForDepartment(department string) ([]*Grant, error) {
	if !rbac.IsValidDepartment(department) {
		return nil, apperrors.ErrInvalidDepartment
	}
	rows, err := s.repo.GetForDepartment(department)
	if err != nil {
		s.logger.Error("failed to load department grants", "error", err, "department", department)
		return nil, err
	}
	return FromDataModelSlice(rows), nil
}

// Upsert creates or updates the single explicit row for a user and
// department pair.
func (s *Service) Upsert(userID int64, dto UpsertGrantDTO) (*Grant, error) {
	if !rbac.IsValidDepartment(dto.Department) {
		return nil, apperrors.ErrInvalidDepartment
	}

	existing, err := s.repo.GetForUserAndDepartment(userID, dto.Department)
	if err != nil {
		return nil, err
	}

	dm := &rbacDatamodel.DepartmentPermission{
		UserID:     userID,
		Department: dto.Department,
		CanView:    dto.CanView,
		CanEdit:    dto.CanEdit,
		CanCreate:  dto.CanCreate,
		CanDelete:  dto.CanDelete,
	}
	if existing != nil {
		dm.ID = existing.ID
		dm.CreatedAt = existing.CreatedAt
	}
	dm.UpdatedAt = time.Now()

	if err := s.repo.Upsert(dm); err != nil {
		s.logger.Error("failed to upsert department grant", "error", err,
			"user_id", userID, "department", dto.Department)
		return nil, err
	}

	s.logger.Info("department grant saved",
		"user_id", userID,
		"department", dto.Department,
		"can_view", dto.CanView,
		"can_edit", dto.CanEdit,
		"can_create", dto.CanCreate,
		"can_delete", dto.CanDelete)
	return FromDataModel(dm), nil
}

// BulkUpdate replaces the listed grants for a user in one pass. Rows for
// departments not listed are left alone.
func (s *Service) BulkUpdate(userID int64, dto BulkUpdateDTO) ([]*Grant, error) {
	for _, g := range dto.Grants {
		if !rbac.IsValidDepartment(g.Department) {
			return nil, apperrors.ErrInvalidDepartment
		}
	}

	out := make([]*Grant, 0, len(dto.Grants))
	for _, g := range dto.Grants {
		saved, err := s.Upsert(userID, g)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, nil
}

func (s *Service) Revoke(userID int64, department string) error {
	if !rbac.IsValidDepartment(department) {
		return apperrors.ErrInvalidDepartment
	}

	existing, err := s.repo.GetForUserAndDepartment(userID, department)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.ErrPermissionNotFound
	}

	if err := s.repo.Delete(userID, department); err != nil {
		s.logger.Error("failed to revoke department grant", "error", err,
			"user_id", userID, "department", department)
		return err
	}

	s.logger.Info("department grant revoked", "user_id", userID, "department", department)
	return nil
}

// AccessGrantsFor loads the explicit rows for access decisions.
func (s *Service) AccessGrantsFor(userID int64) ([]rbac.DepartmentGrant, error) {
	rows, err := s.repo.GetForUser(userID)
	if err != nil {
		return nil, err
	}
	return AccessGrants(rows), nil
}

// AccessSummaryFor resolves the actor's effective access across every
// department, explicit rows and home-department fallback combined.
func (s *Service) AccessSummaryFor(actor *rbac.Actor) ([]*AccessSummary, error) {
	grants, err := s.AccessGrantsFor(actor.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*AccessSummary, 0, len(rbac.Departments()))
	for _, dept := range rbac.Departments() {
		summaries = append(summaries, &AccessSummary{
			Department: dept,
			CanView:    rbac.CanViewDepartment(actor, grants, dept),
			CanEdit:    rbac.CanEditDepartment(actor, grants, dept),
			CanCreate:  rbac.CanCreateDepartment(actor, grants, dept),
			CanDelete:  rbac.CanDeleteDepartment(actor, grants, dept),
			IsHome:     actor.Department == dept,
		})
	}
	return summaries, nil
}

// AccessibleDepartments lists the departments the actor can see.
func (s *Service) AccessibleDepartments(actor *rbac.Actor) ([]string, error) {
	grants, err := s.AccessGrantsFor(actor.ID)
	if err != nil {
		return nil, err
	}
	return rbac.AccessibleDepartments(actor, grants), nil
}
