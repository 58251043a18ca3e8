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

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	users   *service.UserService
	admin   *service.AdminService
	tickets *service.TicketService
	guard   *csrf.Guard
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, admin *service.AdminService, tickets *service.TicketService, guard *csrf.Guard) *UsersHandler {
	return &UsersHandler{users: users, admin: admin, tickets: tickets, guard: guard}
}

// RegisterPage handles GET /register.
func (h *UsersHandler) RegisterPage(c *fiber.Ctx) error {
	return page(c, h.guard, fiber.Map{"page": "register"})
}

// Register handles POST /ajax/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req validation.UserInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.Register(c.UserContext(), auth.SessionFromContext(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, fiber.Map{"data": dto.NewAccountResponse(user)})
}

// Show handles GET /users/:id.
func (h *UsersHandler) Show(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return page(c, h.guard, fiber.Map{"data": dto.NewUserResponse(user)})
}

// Account handles GET /account.
func (h *UsersHandler) Account(c *fiber.Ctx) error {
	sess := auth.SessionFromContext(c)
	user, err := h.users.Account(c.UserContext(), sess)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListMine(c.UserContext(), sess, validation.ParsePage(c.Query("page")))
	if err != nil {
		return err
	}
	return page(c, h.guard, fiber.Map{
		"data":    dto.NewAccountResponse(user),
		"tickets": dto.NewTicketPage(tickets),
	})
}

// Update handles POST /ajax/user/update.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req validation.UserInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.Update(c.UserContext(), auth.SessionFromContext(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"data": dto.NewAccountResponse(user)})
}

// Delete handles POST /ajax/user/delete. An empty id deletes the caller.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	var req dto.IDRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), auth.SessionFromContext(c), req.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "account deleted")
}

// Ban handles POST /ajax/user/ban.
func (h *UsersHandler) Ban(c *fiber.Ctx) error {
	var req dto.IDRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.admin.BanUser(c.UserContext(), auth.SessionFromContext(c), req.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"data": dto.NewUserResponse(user)})
}

// Unban handles POST /ajax/user/unban.
func (h *UsersHandler) Unban(c *fiber.Ctx) error {
	var req dto.IDRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.admin.UnbanUser(c.UserContext(), auth.SessionFromContext(c), req.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"data": dto.NewUserResponse(user)})
}
