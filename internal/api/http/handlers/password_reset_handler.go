package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/csrf"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/validation"
)

// PasswordResetHandler exposes the password reset flow.
type PasswordResetHandler struct {
	resets *service.PasswordResetService
	guard  *csrf.Guard
}

// NewPasswordResetHandler constructs handler.
func NewPasswordResetHandler(resets *service.PasswordResetService, guard *csrf.Guard) *PasswordResetHandler {
	return &PasswordResetHandler{resets: resets, guard: guard}
}

// Page handles GET /password-reset. The token from the mailed link is echoed back.
func (h *PasswordResetHandler) Page(c *fiber.Ctx) error {
	return page(c, h.guard, fiber.Map{"page": "password_reset", "token": c.Query("token")})
}

// Send handles POST /ajax/password-reset/send.
func (h *PasswordResetHandler) Send(c *fiber.Ctx) error {
	var req validation.ResetRequestInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.resets.Send(c.UserContext(), req); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "password reset link sent")
}

// Reset handles POST /ajax/password-reset/reset.
func (h *PasswordResetHandler) Reset(c *fiber.Ctx) error {
	var req validation.ResetInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.resets.Reset(c.UserContext(), req); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "password updated")
}
