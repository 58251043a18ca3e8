package service

import (
	"context"
	"errors"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/session"
	"github.com/spec-kit/helpdesk/internal/validation"
)

// currentUser re-fetches the logged-in user so bans and deletions take
// effect without waiting for the session to expire.
func currentUser(ctx context.Context, users repository.UserRepository, sess *session.Session) (*domain.User, error) {
	if !session.IsLoggedIn(sess) {
		return nil, domain.ErrNotLoggedIn()
	}
	user, err := users.Find(ctx, session.UserID(sess))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotLoggedIn()
	}
	if err != nil {
		return nil, err
	}
	if !user.Type.Active() {
		return nil, domain.NewLogicError(domain.ReasonAccountDisabled, "account is disabled")
	}
	return user, nil
}

func requireAdmin(ctx context.Context, users repository.UserRepository, sess *session.Session) (*domain.User, error) {
	user, err := currentUser(ctx, users, sess)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, domain.ErrForbidden("administrator rights required")
	}
	return user, nil
}

// visibleTicket loads a ticket, hiding deleted ones.
func visibleTicket(ctx context.Context, tickets repository.TicketRepository, field, rawID string) (*domain.Ticket, error) {
	id, err := validation.ParseID(field, rawID)
	if err != nil {
		return nil, err
	}
	ticket, err := tickets.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusDeleted {
		return nil, domain.ErrTicketNotFound
	}
	return ticket, nil
}
