package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/session"
	"github.com/spec-kit/helpdesk/internal/validation"
)

const previewLength = 140

// ReplyService coordinates replies on tickets.
type ReplyService struct {
	users      repository.UserRepository
	tickets    repository.TicketRepository
	replies    repository.ReplyRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ReplyDependencies bundles repositories for the reply service.
type ReplyDependencies struct {
	UserRepo   repository.UserRepository
	TicketRepo repository.TicketRepository
	ReplyRepo  repository.ReplyRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewReplyService builds the service.
func NewReplyService(deps ReplyDependencies) *ReplyService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplyService{
		users:      deps.UserRepo,
		tickets:    deps.TicketRepo,
		replies:    deps.ReplyRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create posts a reply on a ticket that is not closed.
func (s *ReplyService) Create(ctx context.Context, sess *session.Session, in validation.ReplyInput) (*domain.Reply, error) {
	caller, err := currentUser(ctx, s.users, sess)
	if err != nil {
		return nil, err
	}
	validation.SanitizeReply(&in)
	if err := validation.ValidateReply(in); err != nil {
		return nil, err
	}
	ticket, err := s.openTicket(ctx, in.TicketID)
	if err != nil {
		return nil, err
	}

	reply := &domain.Reply{
		TicketID: ticket.ID,
		UserID:   caller.ID,
		Message:  in.Message,
	}
	if err := s.replies.Save(ctx, reply); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		event := events.New(events.EventReplyCreated, ticket.ID, caller.ID, events.ReplyCreatedPayload{
			ReplyID:     reply.ID,
			OwnerID:     ticket.UserID,
			TicketTitle: ticket.Title,
			BodyPreview: preview(reply.Message),
		})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
		}
	}
	return reply, nil
}

// Update edits a reply. Only its author may do so.
func (s *ReplyService) Update(ctx context.Context, sess *session.Session, in validation.ReplyInput) (*domain.Reply, error) {
	caller, err := currentUser(ctx, s.users, sess)
	if err != nil {
		return nil, err
	}
	reply, err := s.find(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if !reply.IsAuthoredBy(caller.ID) {
		return nil, domain.ErrForbidden("you may only edit your own replies")
	}
	if _, err := s.openTicket(ctx, reply.TicketID); err != nil {
		return nil, err
	}
	validation.SanitizeReply(&in)
	if err := validation.ValidateReply(in); err != nil {
		return nil, err
	}

	reply.Message = in.Message
	if err := s.replies.Save(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// Delete removes a reply. Its author or an administrator may do so.
func (s *ReplyService) Delete(ctx context.Context, sess *session.Session, rawID string) error {
	caller, err := currentUser(ctx, s.users, sess)
	if err != nil {
		return err
	}
	reply, err := s.find(ctx, rawID)
	if err != nil {
		return err
	}
	if !reply.IsAuthoredBy(caller.ID) && !caller.IsAdmin() {
		return domain.ErrForbidden("you may only delete your own replies")
	}
	if _, err := s.openTicket(ctx, reply.TicketID); err != nil {
		return err
	}
	return s.replies.Delete(ctx, reply.ID)
}

// ListForTicket returns a live ticket's replies, oldest first.
func (s *ReplyService) ListForTicket(ctx context.Context, rawTicketID string) ([]*domain.Reply, error) {
	ticket, err := visibleTicket(ctx, s.tickets, "ticket_id", rawTicketID)
	if err != nil {
		return nil, err
	}
	return s.replies.ListByTicket(ctx, ticket.ID)
}

func (s *ReplyService) find(ctx context.Context, rawID string) (*domain.Reply, error) {
	id, err := validation.ParseID("id", rawID)
	if err != nil {
		return nil, err
	}
	return s.replies.Find(ctx, id)
}

// openTicket loads a live ticket that still accepts replies.
func (s *ReplyService) openTicket(ctx context.Context, rawID string) (*domain.Ticket, error) {
	ticket, err := visibleTicket(ctx, s.tickets, "ticket_id", rawID)
	if err != nil {
		return nil, err
	}
	if !ticket.AcceptsReplies() {
		return nil, domain.NewLogicError(domain.ReasonTicketClosed, "ticket is closed")
	}
	return ticket, nil
}

func preview(message string) string {
	runes := []rune(message)
	if len(runes) <= previewLength {
		return message
	}
	return string(runes[:previewLength]) + "..."
}
