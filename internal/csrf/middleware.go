package csrf

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/auth"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// Protect rejects requests whose csrf_token does not match the session token.
func Protect(guard *Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := guard.Validate(auth.SessionFromContext(c), submittedToken(c)); err != nil {
			return apperrors.NewForbidden("invalid csrf token")
		}
		return c.Next()
	}
}

func submittedToken(c *fiber.Ctx) string {
	if c.Is("json") {
		var body struct {
			Token string `json:"csrf_token"`
		}
		if err := c.BodyParser(&body); err == nil && body.Token != "" {
			return body.Token
		}
	} else if token := c.FormValue(FieldName); token != "" {
		return token
	}
	return c.Get(HeaderName)
}
