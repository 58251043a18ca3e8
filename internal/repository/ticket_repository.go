package repository

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Save(ctx context.Context, ticket *domain.Ticket) error
	Find(ctx context.Context, id string) (*domain.Ticket, error)
	// ListVisible pages through tickets that are not deleted, newest first.
	ListVisible(ctx context.Context, page, perPage int) (*Page[domain.Ticket], error)
	// ListByUser pages through one user's tickets that are not deleted, newest first.
	ListByUser(ctx context.Context, userID string, page, perPage int) (*Page[domain.Ticket], error)
}

var ticketSchema = Schema[domain.Ticket]{
	Table:   "tickets",
	Columns: []string{"user_id", "title", "description", "status"},
	Fields: func(t *domain.Ticket) []any {
		return []any{&t.UserID, &t.Title, &t.Description, &t.Status}
	},
	Meta: func(t *domain.Ticket) (*string, *time.Time, *time.Time) {
		return &t.ID, &t.CreatedAt, &t.UpdatedAt
	},
	NotFound:     domain.ErrTicketNotFound,
	DefaultOrder: "created_at DESC",
}

type ticketRepository struct {
	*Table[domain.Ticket]
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{Table: NewTable(db, ticketSchema)}
}

func (r *ticketRepository) ListVisible(ctx context.Context, page, perPage int) (*Page[domain.Ticket], error) {
	return r.Paginate(ctx, PageRequest{
		Page:    page,
		PerPage: perPage,
		OrderBy: "created_at",
		Where:   []Condition{{Column: "status", Value: domain.TicketStatusDeleted, Not: true}},
	})
}

func (r *ticketRepository) ListByUser(ctx context.Context, userID string, page, perPage int) (*Page[domain.Ticket], error) {
	return r.Paginate(ctx, PageRequest{
		Page:    page,
		PerPage: perPage,
		OrderBy: "created_at",
		Where: []Condition{
			{Column: "user_id", Value: userID},
			{Column: "status", Value: domain.TicketStatusDeleted, Not: true},
		},
	})
}
