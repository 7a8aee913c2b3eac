package task

import (
	"fmt"
	"time"

	taskDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/task"
)

const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOnHold     = "on_hold"
	StatusCancelled  = "cancelled"

	TypeBug         = "bug"
	TypeFeature     = "feature"
	TypeImprovement = "improvement"
	TypeTask        = "task"
	TypeEpic        = "epic"
	TypeStory       = "story"
)

func Statuses() []string {
	return []string{StatusNotStarted, StatusInProgress, StatusCompleted, StatusOnHold, StatusCancelled}
}

func Types() []string {
	return []string{TypeBug, TypeFeature, TypeImprovement, TypeTask, TypeEpic, TypeStory}
}

type Task struct {
	ID            int64      `json:"id"`
	TaskNumber    string     `json:"task_number"`
	ProjectID     int64      `json:"project_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	TaskType      string     `json:"task_type"`
	AssigneeID    *int64     `json:"assignee_id"`
	ReporterID    int64      `json:"reporter_id"`
	DueDate       *time.Time `json:"due_date"`
	CompletedDate *time.Time `json:"completed_date"`
	EstimatedTime float64    `json:"estimated_time"`
	ActualTime    float64    `json:"actual_time"`
	Tags          []string   `json:"tags,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsOpen reports whether the task still counts toward active work.
func (t *Task) IsOpen() bool {
	return t.Status != StatusCompleted && t.Status != StatusCancelled
}

// IsOverdue reports whether an open task is past its due date.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || !t.IsOpen() {
		return false
	}
	return t.DueDate.Before(now)
}

// TimeVariance is actual minus estimated hours. Positive means over budget.
func (t *Task) TimeVariance() float64 {
	return t.ActualTime - t.EstimatedTime
}

// FormatTaskNumber renders a task number with a zero-padded index, like
// tsk-25-03. Existing data is padded this way, so the format must not
// change.
func FormatTaskNumber(year int, index int) string {
	return fmt.Sprintf("tsk-%02d-%02d", year%100, index)
}

// TaskNumberPrefix is the shared prefix of every task number of a given
// year, used to scan for the highest allocated index.
func TaskNumberPrefix(year int) string {
	return fmt.Sprintf("tsk-%02d-", year%100)
}

func ToDataModel(t *Task) *taskDatamodel.Task {
	return &taskDatamodel.Task{
		ID:            t.ID,
		TaskNumber:    t.TaskNumber,
		ProjectID:     t.ProjectID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        t.Status,
		Priority:      t.Priority,
		TaskType:      t.TaskType,
		AssigneeID:    t.AssigneeID,
		ReporterID:    t.ReporterID,
		DueDate:       t.DueDate,
		CompletedDate: t.CompletedDate,
		EstimatedTime: t.EstimatedTime,
		ActualTime:    t.ActualTime,
		Tags:          t.Tags,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func FromDataModel(t *taskDatamodel.Task) *Task {
	return &Task{
		ID:            t.ID,
		TaskNumber:    t.TaskNumber,
		ProjectID:     t.ProjectID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        t.Status,
		Priority:      t.Priority,
		TaskType:      t.TaskType,
		AssigneeID:    t.AssigneeID,
		ReporterID:    t.ReporterID,
		DueDate:       t.DueDate,
		CompletedDate: t.CompletedDate,
		EstimatedTime: t.EstimatedTime,
		ActualTime:    t.ActualTime,
		Tags:          t.Tags,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func FromDataModelSlice(tasks []*taskDatamodel.Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, FromDataModel(t))
	}
	return out
}
