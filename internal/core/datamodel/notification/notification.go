package notification

import "time"

type Notification struct {
	ID            int64      `gorm:"primaryKey"`
	ExternalID    string     `gorm:"column:external_id;not null;uniqueIndex"`
	UserID        int64      `gorm:"column:user_id;not null;index"`
	Kind          string     `gorm:"column:kind;not null"`
	Subject       string     `gorm:"column:subject;not null"`
	Body          string     `gorm:"column:body"`
	Recipient     string     `gorm:"column:recipient;not null"`
	Status        string     `gorm:"column:status;default:pending"`
	FailureReason *string    `gorm:"column:failure_reason"`
	AttemptCount  int        `gorm:"column:attempt_count;default:0"`
	SentAt        *time.Time `gorm:"column:sent_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Notification) TableName() string { return "notifications" }
