package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTaskAssigned         = "task.assigned"
	EventTypeTaskCompleted        = "task.completed"
	EventTypeDeadlineApproaching  = "deadline.approaching"
	EventTypeProjectStatusChanged = "project.status_changed"
)

type TaskAssignedEvent struct {
	BaseEvent
	TaskID     int64  `json:"task_id"`
	TaskNumber string `json:"task_number"`
	Title      string `json:"title"`
	AssigneeID int64  `json:"assignee_id"`
	AssignedBy int64  `json:"assigned_by"`
}

func NewTaskAssignedEvent(taskID int64, taskNumber, title string, assigneeID, assignedBy int64) *TaskAssignedEvent {
	return &TaskAssignedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTaskAssigned,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"task_id":     taskID,
				"task_number": taskNumber,
				"title":       title,
				"assignee_id": assigneeID,
				"assigned_by": assignedBy,
			},
		},
		TaskID:     taskID,
		TaskNumber: taskNumber,
		Title:      title,
		AssigneeID: assigneeID,
		AssignedBy: assignedBy,
	}
}

type TaskCompletedEvent struct {
	BaseEvent
	TaskID      int64  `json:"task_id"`
	TaskNumber  string `json:"task_number"`
	Title       string `json:"title"`
	ProjectID   int64  `json:"project_id"`
	CompletedBy int64  `json:"completed_by"`
}

func NewTaskCompletedEvent(taskID int64, taskNumber, title string, projectID, completedBy int64) *TaskCompletedEvent {
	return &TaskCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTaskCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"task_id":      taskID,
				"task_number":  taskNumber,
				"title":        title,
				"project_id":   projectID,
				"completed_by": completedBy,
			},
		},
		TaskID:      taskID,
		TaskNumber:  taskNumber,
		Title:       title,
		ProjectID:   projectID,
		CompletedBy: completedBy,
	}
}

type DeadlineApproachingEvent struct {
	BaseEvent
	TaskID     int64     `json:"task_id"`
	TaskNumber string    `json:"task_number"`
	Title      string    `json:"title"`
	AssigneeID int64     `json:"assignee_id"`
	DueDate    time.Time `json:"due_date"`
}

func NewDeadlineApproachingEvent(taskID int64, taskNumber, title string, assigneeID int64, dueDate time.Time) *DeadlineApproachingEvent {
	return &DeadlineApproachingEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDeadlineApproaching,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"task_id":     taskID,
				"task_number": taskNumber,
				"title":       title,
				"assignee_id": assigneeID,
				"due_date":    dueDate,
			},
		},
		TaskID:     taskID,
		TaskNumber: taskNumber,
		Title:      title,
		AssigneeID: assigneeID,
		DueDate:    dueDate,
	}
}

type ProjectStatusChangedEvent struct {
	BaseEvent
	ProjectID     int64  `json:"project_id"`
	ProjectNumber string `json:"project_number"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
	ChangedBy     int64  `json:"changed_by"`
}

func NewProjectStatusChangedEvent(projectID int64, projectNumber, oldStatus, newStatus string, changedBy int64) *ProjectStatusChangedEvent {
	return &ProjectStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeProjectStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"project_id":     projectID,
				"project_number": projectNumber,
				"old_status":     oldStatus,
				"new_status":     newStatus,
				"changed_by":     changedBy,
			},
		},
		ProjectID:     projectID,
		ProjectNumber: projectNumber,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		ChangedBy:     changedBy,
	}
}
