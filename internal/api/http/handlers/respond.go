package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/csrf"
)

// respond writes string bodies as text/plain and everything else as JSON.
func respond(c *fiber.Ctx, status int, body any) error {
	c.Status(status)
	if text, ok := body.(string); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(text)
	}
	return c.JSON(body)
}

// parseBody decodes a form or JSON body into out. An empty body leaves out untouched.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}

// page renders a page payload carrying the session's CSRF token.
func page(c *fiber.Ctx, guard *csrf.Guard, data fiber.Map) error {
	token, err := guard.Token(auth.SessionFromContext(c))
	if err != nil {
		return err
	}
	if data == nil {
		data = fiber.Map{}
	}
	data[csrf.FieldName] = token
	return respond(c, http.StatusOK, data)
}
