package task

import (
	"time"

	apperrors "github.com/portal-labs/project-portal/internal"
	"github.com/portal-labs/project-portal/internal/core/common/validation"
	"github.com/portal-labs/project-portal/internal/project"
)

type CreateTaskDTO struct {
	ProjectID     int64      `json:"project_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority"`
	TaskType      string     `json:"task_type"`
	AssigneeID    *int64     `json:"assignee_id"`
	DueDate       *time.Time `json:"due_date"`
	EstimatedTime float64    `json:"estimated_time"`
	Tags          []string   `json:"tags"`
	Notes         string     `json:"notes"`
}

func (d *CreateTaskDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("project_id", d.ProjectID).Required()
	v.Field("title", d.Title).Required().MinLength(3).MaxLength(200)
	v.Field("priority", d.Priority).OneOf(project.Priorities(), apperrors.ErrCodeInvalidPriority)
	v.Field("task_type", d.TaskType).OneOf(Types(), apperrors.ErrCodeValidationFailed)
	return v.Validate()
}

type UpdateTaskDTO struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	TaskType    *string    `json:"task_type"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"`
	Notes       *string    `json:"notes"`
}

func (d *UpdateTaskDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	if d.Title != nil {
		v.Field("title", *d.Title).Required().MinLength(3).MaxLength(200)
	}
	if d.Status != nil {
		v.Field("status", *d.Status).OneOf(Statuses(), apperrors.ErrCodeInvalidStatus)
	}
	if d.Priority != nil {
		v.Field("priority", *d.Priority).OneOf(project.Priorities(), apperrors.ErrCodeInvalidPriority)
	}
	if d.TaskType != nil {
		v.Field("task_type", *d.TaskType).OneOf(Types(), apperrors.ErrCodeValidationFailed)
	}
	return v.Validate()
}

type AssignTaskDTO struct {
	AssigneeID *int64 `json:"assignee_id"`
}

type TrackTimeDTO struct {
	EstimatedTime *float64 `json:"estimated_time"`
	ActualTime    *float64 `json:"actual_time"`
}

func (d *TrackTimeDTO) Validate() *apperrors.AppError {
	if d.EstimatedTime != nil && *d.EstimatedTime < 0 {
		return apperrors.NewValidationFieldError("estimated_time", "must not be negative", apperrors.ErrCodeValidationFailed)
	}
	if d.ActualTime != nil && *d.ActualTime < 0 {
		return apperrors.NewValidationFieldError("actual_time", "must not be negative", apperrors.ErrCodeValidationFailed)
	}
	return nil
}

type ListTasksFilter struct {
	Departments []string
	ProjectID   int64
	AssigneeID  int64
	Status      string
	Priority    string
	TaskType    string
	Search      string
	Limit       int
	Offset      int
}

type TasksResponse struct {
	Tasks []*Task `json:"tasks"`
	Total int64   `json:"total"`
}
