package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/session"
	"github.com/spec-kit/helpdesk/internal/validation"
)

// TicketsPerPage is the listing page size.
const TicketsPerPage = 20

// TicketService coordinates ticket workflows.
type TicketService struct {
	users      repository.UserRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	UserRepo   repository.UserRepository
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService builds the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		users:      deps.UserRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create opens a ticket owned by the caller.
func (s *TicketService) Create(ctx context.Context, sess *session.Session, in validation.TicketInput) (*domain.Ticket, error) {
	caller, err := currentUser(ctx, s.users, sess)
	if err != nil {
		return nil, err
	}
	validation.SanitizeTicket(&in)
	if err := validation.ValidateTicket(in); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		UserID:      caller.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.TicketStatusPublish,
	}
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventTicketCreated, ticket.ID, caller.ID, events.TicketCreatedPayload{
		OwnerID: ticket.UserID,
		Title:   ticket.Title,
	}))
	return ticket, nil
}

// Editable returns a ticket the caller may edit.
func (s *TicketService) Editable(ctx context.Context, sess *session.Session, rawID string) (*domain.Ticket, error) {
	caller, err := currentUser(ctx, s.users, sess)
	if err != nil {
		return nil, err
	}
	ticket, err := visibleTicket(ctx, s.tickets, "id", rawID)
	if err != nil {
		return nil, err
	}
	if !ticket.IsOwnedBy(caller.ID) && !caller.IsAdmin() {
		return nil, domain.ErrForbidden("you may only change your own tickets")
	}
	return ticket, nil
}

// Update edits an open ticket. The status is always reset to publish.
func (s *TicketService) Update(ctx context.Context, sess *session.Session, in validation.TicketInput) (*domain.Ticket, error) {
	ticket, err := s.Editable(ctx, sess, in.ID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusPublish {
		return nil, domain.NewLogicError(domain.ReasonInvalidState, "only open tickets can be edited")
	}
	validation.SanitizeTicket(&in)
	if err := validation.ValidateTicket(in); err != nil {
		return nil, err
	}

	ticket.Title = in.Title
	ticket.Description = in.Description
	ticket.Status = domain.TicketStatusPublish
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Delete soft-deletes a ticket.
func (s *TicketService) Delete(ctx context.Context, sess *session.Session, rawID string) error {
	ticket, err := s.Editable(ctx, sess, rawID)
	if err != nil {
		return err
	}
	ticket.Status = domain.TicketStatusDeleted
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return err
	}
	s.logger.Info("ticket deleted", zap.String("ticket_id", ticket.ID), zap.String("by", session.UserID(sess)))
	return nil
}

// UpdateStatus moves a ticket through its lifecycle. Administrators may
// pick any live status; owners may only close or solve an open ticket.
func (s *TicketService) UpdateStatus(ctx context.Context, sess *session.Session, in validation.StatusInput) (*domain.Ticket, error) {
	caller, err := currentUser(ctx, s.users, sess)
	if err != nil {
		return nil, err
	}
	validation.SanitizeStatus(&in)
	if err := validation.ValidateStatus(in); err != nil {
		return nil, err
	}
	ticket, err := visibleTicket(ctx, s.tickets, "id", in.ID)
	if err != nil {
		return nil, err
	}
	admin := caller.IsAdmin()
	if !admin && !ticket.IsOwnedBy(caller.ID) {
		return nil, domain.ErrForbidden("you may only change your own tickets")
	}
	if !domain.CanTransition(ticket.Status, in.Status, admin) {
		return nil, domain.NewLogicError(domain.ReasonInvalidState,
			fmt.Sprintf("cannot change status from %s to %s", ticket.Status, in.Status))
	}

	old := ticket.Status
	ticket.Status = in.Status
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventTicketStatusChanged, ticket.ID, caller.ID, events.TicketStatusChangedPayload{
		OwnerID:   ticket.UserID,
		OldStatus: old,
		NewStatus: ticket.Status,
	}))
	return ticket, nil
}

// Get returns a ticket unless it was deleted.
func (s *TicketService) Get(ctx context.Context, rawID string) (*domain.Ticket, error) {
	return visibleTicket(ctx, s.tickets, "id", rawID)
}

// List pages through every live ticket, newest first.
func (s *TicketService) List(ctx context.Context, page int) (*repository.Page[domain.Ticket], error) {
	return s.tickets.ListVisible(ctx, page, TicketsPerPage)
}

// ListMine pages through the caller's live tickets, newest first.
func (s *TicketService) ListMine(ctx context.Context, sess *session.Session, page int) (*repository.Page[domain.Ticket], error) {
	caller, err := currentUser(ctx, s.users, sess)
	if err != nil {
		return nil, err
	}
	return s.tickets.ListByUser(ctx, caller.ID, page, TicketsPerPage)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}
