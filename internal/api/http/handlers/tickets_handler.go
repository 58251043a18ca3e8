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

// TicketsHandler exposes ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	replies *service.ReplyService
	guard   *csrf.Guard
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, replies *service.ReplyService, guard *csrf.Guard) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, replies: replies, guard: guard}
}

// Index handles GET /tickets.
func (h *TicketsHandler) Index(c *fiber.Ctx) error {
	result, err := h.tickets.List(c.UserContext(), validation.ParsePage(c.Query("page")))
	if err != nil {
		return err
	}
	return page(c, h.guard, fiber.Map{"data": dto.NewTicketPage(result)})
}

// CreatePage handles GET /tickets/create.
func (h *TicketsHandler) CreatePage(c *fiber.Ctx) error {
	return page(c, h.guard, fiber.Map{"page": "ticket_create"})
}

// Show handles GET /tickets/:id.
func (h *TicketsHandler) Show(c *fiber.Ctx) error {
	ticket, err := h.tickets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	replies, err := h.replies.ListForTicket(c.UserContext(), ticket.ID)
	if err != nil {
		return err
	}
	return page(c, h.guard, fiber.Map{"data": dto.NewTicketDetail(ticket, replies)})
}

// EditPage handles GET /tickets/edit/:id.
func (h *TicketsHandler) EditPage(c *fiber.Ctx) error {
	ticket, err := h.tickets.Editable(c.UserContext(), auth.SessionFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return page(c, h.guard, fiber.Map{"data": dto.NewTicketDetail(ticket, nil)})
}

// Store handles POST /ajax/ticket/store.
func (h *TicketsHandler) Store(c *fiber.Ctx) error {
	var req validation.TicketInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.tickets.Create(c.UserContext(), auth.SessionFromContext(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, fiber.Map{"data": dto.NewTicketDetail(ticket, nil)})
}

// Update handles POST /ajax/ticket/update.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	var req validation.TicketInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.tickets.Update(c.UserContext(), auth.SessionFromContext(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"data": dto.NewTicketDetail(ticket, nil)})
}

// Delete handles POST /ajax/ticket/delete.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	var req dto.IDRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.tickets.Delete(c.UserContext(), auth.SessionFromContext(c), req.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "ticket deleted")
}

// UpdateStatus handles POST /ajax/ticket/status/update.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req validation.StatusInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.tickets.UpdateStatus(c.UserContext(), auth.SessionFromContext(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"data": dto.NewTicketSummary(ticket)})
}
