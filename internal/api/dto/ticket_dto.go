package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// TicketSummary response.
type TicketSummary struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Title     string              `json:"title"`
	Status    domain.TicketStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Description string          `json:"description"`
	Replies     []ReplyResponse `json:"replies"`
}

// ReplyResponse represents one reply in a thread.
type ReplyResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TicketPage is one page of a ticket listing.
type TicketPage struct {
	Items      []TicketSummary `json:"items"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
}

// NewTicketSummary maps a ticket to its list view.
func NewTicketSummary(t *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// NewTicketDetail maps a ticket and its replies.
func NewTicketDetail(t *domain.Ticket, replies []*domain.Reply) TicketDetailResponse {
	out := TicketDetailResponse{
		TicketSummary: NewTicketSummary(t),
		Description:   t.Description,
		Replies:       make([]ReplyResponse, 0, len(replies)),
	}
	for _, r := range replies {
		out.Replies = append(out.Replies, NewReplyResponse(r))
	}
	return out
}

// NewReplyResponse maps a reply.
func NewReplyResponse(r *domain.Reply) ReplyResponse {
	return ReplyResponse{
		ID:        r.ID,
		TicketID:  r.TicketID,
		UserID:    r.UserID,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// NewTicketPage maps a repository page.
func NewTicketPage(p *repository.Page[domain.Ticket]) TicketPage {
	out := TicketPage{
		Items:      make([]TicketSummary, 0, len(p.Items)),
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      p.Total,
		TotalPages: p.TotalPages(),
	}
	for _, t := range p.Items {
		out.Items = append(out.Items, NewTicketSummary(t))
	}
	return out
}
