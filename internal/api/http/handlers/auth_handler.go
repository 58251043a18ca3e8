package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/csrf"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/validation"
)

// AuthHandler exposes login and logout.
type AuthHandler struct {
	auth  *service.AuthService
	guard *csrf.Guard
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, guard *csrf.Guard) *AuthHandler {
	return &AuthHandler{auth: authService, guard: guard}
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return page(c, h.guard, fiber.Map{"page": "login"})
}

// Login handles POST /ajax/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req validation.LoginInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.auth.Login(c.UserContext(), auth.SessionFromContext(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"data": fiber.Map{"user": dto.NewAccountResponse(user)}})
}

// Logout handles POST /ajax/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), auth.SessionFromContext(c)); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "logged out")
}
