package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/portal-labs/project-portal/internal/core/events"
)

type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) HandleTaskAssigned(ctx context.Context, event events.Event) error {
	assigned, ok := event.(*events.TaskAssignedEvent)
	if !ok {
		h.logger.Error("invalid event type for task assigned handler", "event_type", event.EventType())
		return fmt.Errorf("expected TaskAssignedEvent, got %T", event)
	}

	subject := fmt.Sprintf("Nouvelle tâche assignée : %s", assigned.TaskNumber)
	body := fmt.Sprintf(
		"La tâche %s (« %s ») vient de vous être assignée.\n\nConnectez-vous au portail pour consulter les détails.",
		assigned.TaskNumber, assigned.Title)

	h.service.Notify(assigned.AssigneeID, KindTaskAssigned, subject, body)
	return nil
}

func (h *EventHandler) HandleDeadlineApproaching(ctx context.Context, event events.Event) error {
	deadline, ok := event.(*events.DeadlineApproachingEvent)
	if !ok {
		h.logger.Error("invalid event type for deadline handler", "event_type", event.EventType())
		return fmt.Errorf("expected DeadlineApproachingEvent, got %T", event)
	}

	subject := fmt.Sprintf("Échéance proche : %s", deadline.TaskNumber)
	body := fmt.Sprintf(
		"La tâche %s (« %s ») arrive à échéance le %s.\n\nPensez à mettre à jour son avancement.",
		deadline.TaskNumber, deadline.Title, deadline.DueDate.Format("02/01/2006"))

	h.service.Notify(deadline.AssigneeID, KindDeadlineReminder, subject, body)
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeTaskAssigned, h.HandleTaskAssigned)
	eventBus.Subscribe(events.EventTypeDeadlineApproaching, h.HandleDeadlineApproaching)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypeTaskAssigned, events.EventTypeDeadlineApproaching})
}
