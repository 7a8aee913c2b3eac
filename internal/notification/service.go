package notification

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/portal-labs/project-portal/internal"
	notificationDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/notification"
	"github.com/portal-labs/project-portal/internal/rbac"
)

type Repository interface {
	Create(n *notificationDatamodel.Notification) error
	GetByID(id int64) (*notificationDatamodel.Notification, error)
	Update(n *notificationDatamodel.Notification) error
	ListForUser(userID int64, limit, offset int) ([]*notificationDatamodel.Notification, int64, error)
	ListFailed() ([]*notificationDatamodel.Notification, error)
}

// RecipientResolver maps a user id to a deliverable address.
type RecipientResolver interface {
	RecipientFor(userID int64) (email, name string, err error)
}

type Service struct {
	repo      Repository
	mailer    Mailer
	resolver  RecipientResolver
	cfg       apperrors.NotificationConfig
	logger    *slog.Logger
	sleepFunc func(time.Duration)
}

func NewService(repo Repository, mailer Mailer, resolver RecipientResolver, cfg apperrors.NotificationConfig, logger *slog.Logger) *Service {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Service{
		repo:      repo,
		mailer:    mailer,
		resolver:  resolver,
		cfg:       cfg,
		logger:    logger,
		sleepFunc: time.Sleep,
	}
}

// Notify persists a notification row and tries to deliver it. Delivery is
// best-effort: the row keeps the failure state but the caller never sees an
// error from the send itself.
func (s *Service) Notify(userID int64, kind, subject, body string) {
	if !s.cfg.Enabled {
		return
	}

	email, _, err := s.resolver.RecipientFor(userID)
	if err != nil || email == "" {
		s.logger.Warn("no deliverable address for notification",
			"user_id", userID, "kind", kind, "error", err)
		return
	}

	dm := &notificationDatamodel.Notification{
		ExternalID: uuid.New().String(),
		UserID:     userID,
		Kind:       kind,
		Subject:    subject,
		Body:       body,
		Recipient:  email,
		Status:     StatusPending,
	}
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to persist notification", "error", err, "user_id", userID)
		return
	}

	s.deliver(dm)
}

// deliver runs the attempt loop and records the outcome on the row. Each
// call gets a fresh budget of MaxAttempts; the row keeps the cumulative
// counter across resends.
func (s *Service) deliver(dm *notificationDatamodel.Notification) {
	var lastErr error
	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		dm.AttemptCount++
		lastErr = s.mailer.Send(dm.Recipient, dm.Subject, dm.Body)
		if lastErr == nil {
			now := time.Now()
			dm.Status = StatusSent
			dm.SentAt = &now
			dm.FailureReason = nil
			if err := s.repo.Update(dm); err != nil {
				s.logger.Error("failed to record notification delivery", "error", err, "notification_id", dm.ID)
			}
			s.logger.Info("notification sent",
				"notification_id", dm.ID,
				"kind", dm.Kind,
				"attempts", dm.AttemptCount)
			return
		}

		s.logger.Warn("notification delivery attempt failed",
			"notification_id", dm.ID,
			"attempt", dm.AttemptCount,
			"error", lastErr)

		if attempt < s.cfg.MaxAttempts-1 && s.cfg.RetryBackoff > 0 {
			s.sleepFunc(s.cfg.RetryBackoff)
		}
	}

	reason := lastErr.Error()
	dm.Status = StatusFailed
	dm.FailureReason = &reason
	if err := s.repo.Update(dm); err != nil {
		s.logger.Error("failed to record notification failure", "error", err, "notification_id", dm.ID)
	}
}

// ListForUser returns the actor's own notification feed.
func (s *Service) ListForUser(actor *rbac.Actor, limit, offset int) ([]*Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, total, err := s.repo.ListForUser(actor.ID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "user_id", actor.ID)
		return nil, 0, err
	}
	return FromDataModelSlice(rows), total, nil
}

// ResendFailed gives every failed row another delivery round. Admin-class
// actors only.
func (s *Service) ResendFailed(actor *rbac.Actor) (int, error) {
	if !rbac.IsAdminActor(actor) {
		return 0, apperrors.ErrAccessDenied
	}

	rows, err := s.repo.ListFailed()
	if err != nil {
		s.logger.Error("failed to scan retryable notifications", "error", err)
		return 0, err
	}

	resent := 0
	for _, dm := range rows {
		s.deliver(dm)
		if dm.Status == StatusSent {
			resent++
		}
	}

	s.logger.Info("failed notifications reprocessed", "eligible", len(rows), "resent", resent)
	return resent, nil
}
