package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/validation"
)

// RepliesHandler exposes reply endpoints.
type RepliesHandler struct {
	replies *service.ReplyService
}

// NewRepliesHandler constructs handler.
func NewRepliesHandler(replies *service.ReplyService) *RepliesHandler {
	return &RepliesHandler{replies: replies}
}

// Create handles POST /ajax/reply/create.
func (h *RepliesHandler) Create(c *fiber.Ctx) error {
	var req validation.ReplyInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	reply, err := h.replies.Create(c.UserContext(), auth.SessionFromContext(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, fiber.Map{"data": dto.NewReplyResponse(reply)})
}

// Update handles POST /ajax/reply/update.
func (h *RepliesHandler) Update(c *fiber.Ctx) error {
	var req validation.ReplyInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	reply, err := h.replies.Update(c.UserContext(), auth.SessionFromContext(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"data": dto.NewReplyResponse(reply)})
}

// Delete handles POST /ajax/reply/delete.
func (h *RepliesHandler) Delete(c *fiber.Ctx) error {
	var req dto.IDRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.replies.Delete(c.UserContext(), auth.SessionFromContext(c), req.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "reply deleted")
}
