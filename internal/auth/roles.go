package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/session"
)

// RequireLogin rejects requests without a logged-in session.
func RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !session.IsLoggedIn(SessionFromContext(c)) {
			return domain.ErrNotLoggedIn()
		}
		return c.Next()
	}
}

// RequireGuest rejects requests from logged-in sessions.
func RequireGuest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session.IsLoggedIn(SessionFromContext(c)) {
			return domain.NewLogicError(domain.ReasonInvalidState, "already logged in")
		}
		return c.Next()
	}
}
