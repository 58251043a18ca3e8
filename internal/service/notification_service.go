package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	mailer     notify.Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, users repository.UserRepository, mailer notify.Mailer, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		users:      users,
		mailer:     mailer,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventReplyCreated, n.handleReplyCreated)
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	return n.mailOwner(ctx, event, payload.OwnerID,
		"Your ticket status changed",
		fmt.Sprintf("Your ticket is now %s (was %s).\n", payload.NewStatus, payload.OldStatus))
}

func (n *NotificationService) handleReplyCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ReplyCreated", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.ReplyCreatedPayload)
	if !ok {
		return nil
	}
	return n.mailOwner(ctx, event, payload.OwnerID,
		fmt.Sprintf("New reply on %q", payload.TicketTitle),
		payload.BodyPreview+"\n")
}

// mailOwner notifies the ticket owner unless they caused the event.
func (n *NotificationService) mailOwner(ctx context.Context, event events.Event, ownerID, subject, body string) error {
	if n.mailer == nil || ownerID == "" || ownerID == event.ActorID {
		return nil
	}
	owner, err := n.users.Find(ctx, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !owner.Type.Active() {
		return nil
	}
	return n.mailer.Send(ctx, notify.Message{To: owner.Email, Subject: subject, Body: body})
}
