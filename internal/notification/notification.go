package notification

import (
	"time"

	notificationDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/notification"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"

	KindTaskAssigned     = "task_assigned"
	KindDeadlineReminder = "deadline_reminder"
	KindProjectUpdate    = "project_update"
)

type Notification struct {
	ID            int64      `json:"id"`
	ExternalID    string     `json:"external_id"`
	UserID        int64      `json:"user_id"`
	Kind          string     `json:"kind"`
	Subject       string     `json:"subject"`
	Body          string     `json:"body"`
	Recipient     string     `json:"recipient"`
	Status        string     `json:"status"`
	FailureReason *string    `json:"failure_reason,omitempty"`
	AttemptCount  int        `json:"attempt_count"`
	SentAt        *time.Time `json:"sent_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:            n.ID,
		ExternalID:    n.ExternalID,
		UserID:        n.UserID,
		Kind:          n.Kind,
		Subject:       n.Subject,
		Body:          n.Body,
		Recipient:     n.Recipient,
		Status:        n.Status,
		FailureReason: n.FailureReason,
		AttemptCount:  n.AttemptCount,
		SentAt:        n.SentAt,
		CreatedAt:     n.CreatedAt,
	}
}

func FromDataModelSlice(rows []*notificationDatamodel.Notification) []*Notification {
	out := make([]*Notification, 0, len(rows))
	for _, n := range rows {
		out = append(out, FromDataModel(n))
	}
	return out
}
