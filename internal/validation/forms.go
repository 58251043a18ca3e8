package validation

import "github.com/spec-kit/helpdesk/internal/domain"

// UserInput carries registration and profile update fields.
type UserInput struct {
	ID              string `json:"id" form:"id"`
	Email           string `json:"email" form:"email" validate:"required,email,max=255"`
	FirstName       string `json:"first_name" form:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" form:"last_name" validate:"required,max=100"`
	Password        string `json:"password" form:"password" validate:"omitempty,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"eqfield=Password"`
}

// LoginInput carries credentials.
type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
}

// TicketInput carries ticket create and update fields.
type TicketInput struct {
	ID          string `json:"id" form:"id"`
	Title       string `json:"title" form:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" form:"description" validate:"required,min=10,max=10000"`
}

// StatusInput carries a ticket status change.
type StatusInput struct {
	ID     string              `json:"id" form:"id"`
	Status domain.TicketStatus `json:"status" form:"status" validate:"required,ticket_status"`
}

// ReplyInput carries reply create and update fields.
type ReplyInput struct {
	ID       string `json:"id" form:"id"`
	TicketID string `json:"ticket_id" form:"ticket_id"`
	Message  string `json:"message" form:"message" validate:"required,min=1,max=5000"`
}

// ResetRequestInput starts a password reset.
type ResetRequestInput struct {
	Email string `json:"email" form:"email" validate:"required,email,max=255"`
}

// ResetInput completes a password reset.
type ResetInput struct {
	Token           string `json:"token" form:"token" validate:"required,max=255"`
	Password        string `json:"password" form:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
}
