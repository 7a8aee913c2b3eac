package dashboard

import "time"

// ProjectStats aggregates the projects visible to one actor.
type ProjectStats struct {
	Total             int64            `json:"total"`
	ByStatus          map[string]int64 `json:"by_status"`
	Overdue           int64            `json:"overdue"`
	BudgetTotal       int64            `json:"budget_total"`
	BudgetSpent       int64            `json:"budget_spent"`
	BudgetUtilization float64          `json:"budget_utilization"`
}

// TaskStats aggregates the tasks visible to one actor.
type TaskStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByPriority map[string]int64 `json:"by_priority"`
	Overdue    int64            `json:"overdue"`
}

// DepartmentStats is the per-department rollup row.
type DepartmentStats struct {
	Department     string `json:"department"`
	ProjectCount   int64  `json:"project_count"`
	ActiveProjects int64  `json:"active_projects"`
	TaskCount      int64  `json:"task_count"`
	OpenTasks      int64  `json:"open_tasks"`
}

// ActivityEntry is one recently touched project or task.
type ActivityEntry struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Number    string    `json:"number"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Overview bundles the dashboard home payload.
type Overview struct {
	Projects    ProjectStats      `json:"projects"`
	Tasks       TaskStats         `json:"tasks"`
	Departments []DepartmentStats `json:"departments"`
	Recent      []ActivityEntry   `json:"recent_activity"`
}
