package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPublish TicketStatus = "publish"
	TicketStatusClosed  TicketStatus = "closed"
	TicketStatusSolved  TicketStatus = "solved"
	TicketStatusDeleted TicketStatus = "deleted"
)

// TicketStatuses lists every accepted ticket status.
var TicketStatuses = []TicketStatus{TicketStatusPublish, TicketStatusClosed, TicketStatusSolved, TicketStatusDeleted}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	for _, known := range TicketStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Ticket is a support request opened by a user.
type Ticket struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwnedBy reports whether userID opened the ticket.
func (t *Ticket) IsOwnedBy(userID string) bool {
	return t != nil && userID != "" && t.UserID == userID
}

// AcceptsReplies reports whether new replies may be posted.
func (t *Ticket) AcceptsReplies() bool {
	return t.Status != TicketStatusClosed && t.Status != TicketStatusDeleted
}

// adminTransitions lists statuses an administrator may move a ticket to.
var adminTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusPublish: {TicketStatusPublish, TicketStatusClosed, TicketStatusSolved},
	TicketStatusClosed:  {TicketStatusPublish, TicketStatusClosed, TicketStatusSolved},
	TicketStatusSolved:  {TicketStatusPublish, TicketStatusClosed, TicketStatusSolved},
	TicketStatusDeleted: {},
}

// ownerTransitions lists statuses the ticket owner may move a ticket to.
var ownerTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusPublish: {TicketStatusClosed, TicketStatusSolved},
	TicketStatusClosed:  {},
	TicketStatusSolved:  {},
	TicketStatusDeleted: {},
}

// CanTransition reports whether a ticket in status current may move to next.
func CanTransition(current, next TicketStatus, admin bool) bool {
	table := ownerTransitions
	if admin {
		table = adminTransitions
	}
	for _, candidate := range table[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
