package postgres

import (
	"sort"
	"time"

	"gorm.io/gorm"

	projectDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/project"
	taskDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/task"
	"github.com/portal-labs/project-portal/internal/dashboard"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) dashboard.Repository {
	return &DashboardRepository{db: db}
}

type statusCount struct {
	Key   string
	Count int64
}

func (r *DashboardRepository) ProjectStatusCounts(departments []string) (map[string]int64, error) {
	query := r.db.Model(&projectDatamodel.Project{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status")
	if len(departments) > 0 {
		query = query.Where("department IN ?", departments)
	}

	var rows []statusCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

func (r *DashboardRepository) ProjectOverdueCount(departments []string, now time.Time) (int64, error) {
	query := r.db.Model(&projectDatamodel.Project{}).
		Where("end_date IS NOT NULL AND end_date < ?", now).
		Where("status NOT IN ?", []string{"termine", "annule"})
	if len(departments) > 0 {
		query = query.Where("department IN ?", departments)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DashboardRepository) BudgetTotals(departments []string) (int64, int64, error) {
	query := r.db.Model(&projectDatamodel.Project{}).
		Select("COALESCE(SUM(budget), 0) AS budget, COALESCE(SUM(spent), 0) AS spent")
	if len(departments) > 0 {
		query = query.Where("department IN ?", departments)
	}

	var totals struct {
		Budget int64
		Spent  int64
	}
	if err := query.Scan(&totals).Error; err != nil {
		return 0, 0, err
	}
	return totals.Budget, totals.Spent, nil
}

func (r *DashboardRepository) taskQuery(departments []string) *gorm.DB {
	query := r.db.Model(&taskDatamodel.Task{})
	if len(departments) > 0 {
		query = query.
			Joins("JOIN projects ON projects.id = tasks.project_id").
			Where("projects.department IN ?", departments)
	}
	return query
}

func (r *DashboardRepository) TaskStatusCounts(departments []string) (map[string]int64, error) {
	var rows []statusCount
	err := r.taskQuery(departments).
		Select("tasks.status AS key, COUNT(*) AS count").
		Group("tasks.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

func (r *DashboardRepository) TaskPriorityCounts(departments []string) (map[string]int64, error) {
	var rows []statusCount
	err := r.taskQuery(departments).
		Select("tasks.priority AS key, COUNT(*) AS count").
		Group("tasks.priority").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

func (r *DashboardRepository) TaskOverdueCount(departments []string, now time.Time) (int64, error) {
	query := r.taskQuery(departments).
		Where("tasks.due_date IS NOT NULL AND tasks.due_date < ?", now).
		Where("tasks.status NOT IN ?", []string{"completed", "cancelled"})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DashboardRepository) DepartmentRollup(departments []string) ([]dashboard.DepartmentStats, error) {
	where := ""
	args := []interface{}{}
	if len(departments) > 0 {
		where = "WHERE p.department IN ?"
		args = append(args, departments)
	}

	query := r.db.Raw(`
		SELECT
			p.department AS department,
			COUNT(DISTINCT p.id) AS project_count,
			COUNT(DISTINCT CASE WHEN p.status NOT IN ('termine', 'annule') THEN p.id END) AS active_projects,
			COUNT(t.id) AS task_count,
			COUNT(CASE WHEN t.status NOT IN ('completed', 'cancelled') THEN t.id END) AS open_tasks
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		`+where+`
		GROUP BY p.department
		ORDER BY p.department`, args...)

	var rows []dashboard.DepartmentStats
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DashboardRepository) RecentActivity(departments []string, limit int) ([]dashboard.ActivityEntry, error) {
	var entries []dashboard.ActivityEntry

	projectQuery := r.db.Model(&projectDatamodel.Project{}).
		Select("'project' AS kind, id, project_number AS number, name AS title, status, updated_at")
	if len(departments) > 0 {
		projectQuery = projectQuery.Where("department IN ?", departments)
	}
	var projects []dashboard.ActivityEntry
	if err := projectQuery.Order("updated_at DESC").Limit(limit).Scan(&projects).Error; err != nil {
		return nil, err
	}

	taskQuery := r.taskQuery(departments).
		Select("'task' AS kind, tasks.id, tasks.task_number AS number, tasks.title, tasks.status, tasks.updated_at")
	var tasks []dashboard.ActivityEntry
	if err := taskQuery.Order("tasks.updated_at DESC").Limit(limit).Scan(&tasks).Error; err != nil {
		return nil, err
	}

	entries = append(entries, projects...)
	entries = append(entries, tasks...)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
