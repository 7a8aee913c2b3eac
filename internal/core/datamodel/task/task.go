package task

import "time"

type Task struct {
	ID            int64      `gorm:"primaryKey"`
	TaskNumber    string     `gorm:"column:task_number;uniqueIndex;not null"`
	ProjectID     int64      `gorm:"column:project_id;not null;index"`
	Title         string     `gorm:"column:title;not null"`
	Description   string     `gorm:"column:description"`
	Status        string     `gorm:"column:status;default:not_started"`
	Priority      string     `gorm:"column:priority;default:moyen"`
	TaskType      string     `gorm:"column:task_type;default:task"`
	AssigneeID    *int64     `gorm:"column:assignee_id;index"`
	ReporterID    int64      `gorm:"column:reporter_id;not null"`
	DueDate       *time.Time `gorm:"column:due_date;type:date"`
	CompletedDate *time.Time `gorm:"column:completed_date"`
	EstimatedTime float64    `gorm:"column:estimated_time;default:0"`
	ActualTime    float64    `gorm:"column:actual_time;default:0"`
	Tags          []string   `gorm:"column:tags;serializer:json"`
	Notes         string     `gorm:"column:notes"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Task) TableName() string { return "tasks" }
