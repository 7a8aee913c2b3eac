package postgres

import (
	"gorm.io/gorm"

	notificationDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/notification"
	"github.com/portal-labs/project-portal/internal/notification"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *notificationDatamodel.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) GetByID(id int64) (*notificationDatamodel.Notification, error) {
	var dm notificationDatamodel.Notification
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dm, nil
}

func (r *NotificationRepository) Update(n *notificationDatamodel.Notification) error {
	return r.db.Save(n).Error
}

func (r *NotificationRepository) ListForUser(userID int64, limit, offset int) ([]*notificationDatamodel.Notification, int64, error) {
	query := r.db.Model(&notificationDatamodel.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*notificationDatamodel.Notification
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *NotificationRepository) ListFailed() ([]*notificationDatamodel.Notification, error) {
	var rows []*notificationDatamodel.Notification
	err := r.db.
		Where("status = ?", notification.StatusFailed).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
