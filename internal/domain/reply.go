package domain

import "time"

// Reply is a message posted on a ticket thread.
type Reply struct {
	ID        string
	TicketID  string
	UserID    string
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAuthoredBy reports whether userID wrote the reply.
func (r *Reply) IsAuthoredBy(userID string) bool {
	return r != nil && userID != "" && r.UserID == userID
}
