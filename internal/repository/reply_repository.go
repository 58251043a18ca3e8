package repository

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ReplyRepository encapsulates reply persistence.
type ReplyRepository interface {
	Save(ctx context.Context, reply *domain.Reply) error
	Find(ctx context.Context, id string) (*domain.Reply, error)
	Delete(ctx context.Context, id string) error
	// ListByTicket returns a ticket's replies, oldest first.
	ListByTicket(ctx context.Context, ticketID string) ([]*domain.Reply, error)
}

var replySchema = Schema[domain.Reply]{
	Table:   "replies",
	Columns: []string{"ticket_id", "user_id", "message"},
	Fields: func(r *domain.Reply) []any {
		return []any{&r.TicketID, &r.UserID, &r.Message}
	},
	Meta: func(r *domain.Reply) (*string, *time.Time, *time.Time) {
		return &r.ID, &r.CreatedAt, &r.UpdatedAt
	},
	NotFound: domain.ErrReplyNotFound,
}

type replyRepository struct {
	*Table[domain.Reply]
}

// NewReplyRepository instantiates repository.
func NewReplyRepository(db Querier) ReplyRepository {
	return &replyRepository{Table: NewTable(db, replySchema)}
}

func (r *replyRepository) ListByTicket(ctx context.Context, ticketID string) ([]*domain.Reply, error) {
	return r.FindBy(ctx, "ticket_id", ticketID)
}
