package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// IDRequest is the body of routes that act on a single record.
type IDRequest struct {
	ID string `json:"id" form:"id"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string          `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Type      domain.UserType `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}

// AccountResponse adds private fields shown to the account owner.
type AccountResponse struct {
	UserResponse
	Email string `json:"email"`
}

// NewUserResponse maps a user to its public view.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Type:      u.Type,
		CreatedAt: u.CreatedAt,
	}
}

// NewAccountResponse maps a user to the owner's view.
func NewAccountResponse(u *domain.User) AccountResponse {
	return AccountResponse{UserResponse: NewUserResponse(u), Email: u.Email}
}
