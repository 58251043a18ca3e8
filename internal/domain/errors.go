package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrTicketNotFound     = fmt.Errorf("ticket %w", ErrNotFound)
	ErrReplyNotFound      = fmt.Errorf("reply %w", ErrNotFound)
	ErrResetTokenNotFound = fmt.Errorf("password reset token %w", ErrNotFound)
	ErrPasswordMismatch   = errors.New("password does not match")
	ErrInvalidQuery       = errors.New("invalid query")
)

// ValidationError reports the first input rule an entity violated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// LogicReason classifies why an operation is not permitted.
type LogicReason string

const (
	ReasonNotLoggedIn     LogicReason = "not_logged_in"
	ReasonForbidden       LogicReason = "forbidden"
	ReasonAccountDisabled LogicReason = "account_disabled"
	ReasonTicketClosed    LogicReason = "ticket_closed"
	ReasonInvalidState    LogicReason = "invalid_state"
)

// LogicError is returned when a well-formed request breaks a business rule.
type LogicError struct {
	Reason  LogicReason
	Message string
}

func (e *LogicError) Error() string {
	return e.Message
}

// NewLogicError builds a LogicError.
func NewLogicError(reason LogicReason, message string) error {
	return &LogicError{Reason: reason, Message: message}
}

// ErrNotLoggedIn is returned by operations that need an authenticated caller.
func ErrNotLoggedIn() error {
	return NewLogicError(ReasonNotLoggedIn, "you must be logged in")
}

// ErrForbidden is returned when the caller lacks rights over a resource.
func ErrForbidden(message string) error {
	return NewLogicError(ReasonForbidden, message)
}

// IsLogicError reports whether err is a LogicError, optionally of reason.
func IsLogicError(err error, reason ...LogicReason) bool {
	var logicErr *LogicError
	if !errors.As(err, &logicErr) {
		return false
	}
	if len(reason) == 0 {
		return true
	}
	for _, r := range reason {
		if logicErr.Reason == r {
			return true
		}
	}
	return false
}
