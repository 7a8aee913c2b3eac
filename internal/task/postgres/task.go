package postgres

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	taskDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/task"
	"github.com/portal-labs/project-portal/internal/task"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) task.Repository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(t *taskDatamodel.Task) error {
	return r.db.Create(t).Error
}

func (r *TaskRepository) GetByID(id int64) (*taskDatamodel.Task, error) {
	var dm taskDatamodel.Task
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dm, nil
}

func (r *TaskRepository) GetByNumber(number string) (*taskDatamodel.Task, error) {
	var dm taskDatamodel.Task
	err := r.db.Where("task_number = ?", number).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dm, nil
}

func (r *TaskRepository) List(filter task.ListTasksFilter) ([]*taskDatamodel.Task, int64, error) {
	query := r.db.Model(&taskDatamodel.Task{})

	if len(filter.Departments) > 0 {
		query = query.
			Joins("JOIN projects ON projects.id = tasks.project_id").
			Where("projects.department IN ?", filter.Departments)
	}
	if filter.ProjectID != 0 {
		query = query.Where("tasks.project_id = ?", filter.ProjectID)
	}
	if filter.AssigneeID != 0 {
		query = query.Where("tasks.assignee_id = ?", filter.AssigneeID)
	}
	if filter.Status != "" {
		query = query.Where("tasks.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("tasks.priority = ?", filter.Priority)
	}
	if filter.TaskType != "" {
		query = query.Where("tasks.task_type = ?", filter.TaskType)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("tasks.title LIKE ? OR tasks.task_number LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*taskDatamodel.Task
	err := query.
		Order("tasks.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *TaskRepository) Update(t *taskDatamodel.Task) error {
	return r.db.Save(t).Error
}

func (r *TaskRepository) Delete(id int64) error {
	return r.db.Delete(&taskDatamodel.Task{}, id).Error
}

// MaxNumberIndex parses the numeric suffix in Go so the scan works on both
// postgres and sqlite.
func (r *TaskRepository) MaxNumberIndex(yearPrefix string) (int, error) {
	var numbers []string
	err := r.db.Model(&taskDatamodel.Task{}).
		Where("task_number LIKE ?", yearPrefix+"%").
		Pluck("task_number", &numbers).Error
	if err != nil {
		return 0, err
	}

	max := 0
	for _, number := range numbers {
		suffix := strings.TrimPrefix(number, yearPrefix)
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

func (r *TaskRepository) ProjectHeader(projectID int64) (*task.ProjectHeader, error) {
	var h task.ProjectHeader
	err := r.db.Raw(`
		SELECT id, department, manager_id
		FROM projects
		WHERE id = ?`, projectID).Scan(&h).Error
	if err != nil {
		return nil, err
	}
	if h.ID == 0 {
		return nil, nil
	}
	return &h, nil
}

func (r *TaskRepository) ListDueWithin(from, until time.Time) ([]*taskDatamodel.Task, error) {
	var rows []*taskDatamodel.Task
	err := r.db.
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ?", from, until).
		Where("assignee_id IS NOT NULL").
		Where("status NOT IN ?", []string{task.StatusCompleted, task.StatusCancelled}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
