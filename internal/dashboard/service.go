package dashboard

import (
	"log/slog"
	"time"

	"github.com/portal-labs/project-portal/internal/rbac"
)

// Repository answers the aggregate queries. A nil departments slice means
// no scoping, used for admin-class actors.
type Repository interface {
	ProjectStatusCounts(departments []string) (map[string]int64, error)
	ProjectOverdueCount(departments []string, now time.Time) (int64, error)
	BudgetTotals(departments []string) (budget, spent int64, err error)
	TaskStatusCounts(departments []string) (map[string]int64, error)
	TaskPriorityCounts(departments []string) (map[string]int64, error)
	TaskOverdueCount(departments []string, now time.Time) (int64, error)
	DepartmentRollup(departments []string) ([]DepartmentStats, error)
	RecentActivity(departments []string, limit int) ([]ActivityEntry, error)
}

type DepartmentAccess interface {
	AccessGrantsFor(userID int64) ([]rbac.DepartmentGrant, error)
}

type Service struct {
	repo       Repository
	deptAccess DepartmentAccess
	logger     *slog.Logger
}

func NewService(repo Repository, deptAccess DepartmentAccess, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		deptAccess: deptAccess,
		logger:     logger,
	}
}

// scope resolves the department filter for an actor. The second return is
// false when the actor can see nothing at all.
func (s *Service) scope(actor *rbac.Actor) ([]string, bool) {
	if rbac.IsAdminActor(actor) {
		return nil, true
	}
	grants, err := s.deptAccess.AccessGrantsFor(actor.ID)
	if err != nil {
		s.logger.Warn("failed to load department grants, denying fallback rows",
			"error", err, "user_id", actor.ID)
		grants = nil
	}
	accessible := rbac.AccessibleDepartments(actor, grants)
	if len(accessible) == 0 {
		return nil, false
	}
	return accessible, true
}

func (s *Service) ProjectStats(actor *rbac.Actor) (*ProjectStats, error) {
	departments, visible := s.scope(actor)
	if !visible {
		return &ProjectStats{ByStatus: map[string]int64{}}, nil
	}

	byStatus, err := s.repo.ProjectStatusCounts(departments)
	if err != nil {
		s.logger.Error("failed to count projects by status", "error", err)
		return nil, err
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}

	overdue, err := s.repo.ProjectOverdueCount(departments, time.Now())
	if err != nil {
		return nil, err
	}

	budget, spent, err := s.repo.BudgetTotals(departments)
	if err != nil {
		return nil, err
	}

	stats := &ProjectStats{
		Total:       total,
		ByStatus:    byStatus,
		Overdue:     overdue,
		BudgetTotal: budget,
		BudgetSpent: spent,
	}
	if budget > 0 {
		stats.BudgetUtilization = float64(spent) / float64(budget)
	}
	return stats, nil
}

func (s *Service) TaskStats(actor *rbac.Actor) (*TaskStats, error) {
	departments, visible := s.scope(actor)
	if !visible {
		return &TaskStats{ByStatus: map[string]int64{}, ByPriority: map[string]int64{}}, nil
	}

	byStatus, err := s.repo.TaskStatusCounts(departments)
	if err != nil {
		s.logger.Error("failed to count tasks by status", "error", err)
		return nil, err
	}

	byPriority, err := s.repo.TaskPriorityCounts(departments)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}

	overdue, err := s.repo.TaskOverdueCount(departments, time.Now())
	if err != nil {
		return nil, err
	}

	return &TaskStats{
		Total:      total,
		ByStatus:   byStatus,
		ByPriority: byPriority,
		Overdue:    overdue,
	}, nil
}

func (s *Service) DepartmentStats(actor *rbac.Actor) ([]DepartmentStats, error) {
	departments, visible := s.scope(actor)
	if !visible {
		return []DepartmentStats{}, nil
	}
	return s.repo.DepartmentRollup(departments)
}

func (s *Service) RecentActivity(actor *rbac.Actor, limit int) ([]ActivityEntry, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	departments, visible := s.scope(actor)
	if !visible {
		return []ActivityEntry{}, nil
	}
	return s.repo.RecentActivity(departments, limit)
}

// Overview assembles the dashboard home payload in one call.
func (s *Service) Overview(actor *rbac.Actor) (*Overview, error) {
	projects, err := s.ProjectStats(actor)
	if err != nil {
		return nil, err
	}
	tasks, err := s.TaskStats(actor)
	if err != nil {
		return nil, err
	}
	rollup, err := s.DepartmentStats(actor)
	if err != nil {
		return nil, err
	}
	recent, err := s.RecentActivity(actor, 10)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Projects:    *projects,
		Tasks:       *tasks,
		Departments: rollup,
		Recent:      recent,
	}, nil
}
