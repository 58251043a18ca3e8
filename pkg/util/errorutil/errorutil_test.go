package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestToDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", domain.NewValidationError("email", "is required"), http.StatusBadRequest},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", domain.ErrTicketNotFound), http.StatusNotFound},
		{"password mismatch", domain.ErrPasswordMismatch, http.StatusUnauthorized},
		{"not logged in", domain.ErrNotLoggedIn(), http.StatusForbidden},
		{"forbidden", domain.ErrForbidden("nope"), http.StatusForbidden},
		{"disabled", domain.NewLogicError(domain.ReasonAccountDisabled, "banned"), http.StatusForbidden},
		{"ticket closed", domain.NewLogicError(domain.ReasonTicketClosed, "closed"), http.StatusBadRequest},
		{"invalid query", fmt.Errorf("%w: bad column", domain.ErrInvalidQuery), http.StatusBadRequest},
		{"fiber", fiber.NewError(http.StatusMethodNotAllowed, "method"), http.StatusMethodNotAllowed},
		{"csrf", NewForbidden("invalid CSRF token"), http.StatusForbidden},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, ToDomainError(tc.err).HTTPStatus)
		})
	}
}

func TestToDomainErrorHidesInternalDetails(t *testing.T) {
	mapped := ToDomainError(errors.New("pq: connection refused"))
	assert.Equal(t, "internal server error", mapped.Message)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
}

func TestLogicErrorCode(t *testing.T) {
	mapped := ToDomainError(domain.NewLogicError(domain.ReasonTicketClosed, "ticket is closed"))
	assert.Equal(t, "LOGIC_TICKET_CLOSED", mapped.Code)
	assert.Equal(t, "ticket is closed", mapped.Message)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
