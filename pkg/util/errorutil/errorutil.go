package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// DomainError standardizes errors at the HTTP boundary.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden)
}

func NewTooManyRequests(message string) error {
	return NewDomainError("RATE_LIMITED", message, http.StatusTooManyRequests)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts service and framework errors to a DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return &DomainError{Code: "VALIDATION_FAILED", Message: validationErr.Error(), HTTPStatus: http.StatusBadRequest, Err: err}
	}

	var logicErr *domain.LogicError
	if errors.As(err, &logicErr) {
		status := http.StatusBadRequest
		switch logicErr.Reason {
		case domain.ReasonNotLoggedIn, domain.ReasonForbidden, domain.ReasonAccountDisabled:
			status = http.StatusForbidden
		}
		return &DomainError{Code: "LOGIC_" + strings.ToUpper(string(logicErr.Reason)), Message: logicErr.Message, HTTPStatus: status, Err: err}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &DomainError{Code: "HTTP_" + fmt.Sprint(fiberErr.Code), Message: fiberErr.Message, HTTPStatus: fiberErr.Code, Err: err}
	}

	switch {
	case errors.Is(err, domain.ErrPasswordMismatch):
		return &DomainError{Code: "PASSWORD_MISMATCH", Message: "password does not match", HTTPStatus: http.StatusUnauthorized, Err: err}
	case errors.Is(err, domain.ErrNotFound):
		return &DomainError{Code: "NOT_FOUND", Message: err.Error(), HTTPStatus: http.StatusNotFound, Err: err}
	case errors.Is(err, domain.ErrInvalidQuery):
		return &DomainError{Code: "INVALID_QUERY", Message: err.Error(), HTTPStatus: http.StatusBadRequest, Err: err}
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
