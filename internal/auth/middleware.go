package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/session"
)

const sessionKey = "helpdesk_session"

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	Name   string
	Secure bool
}

// SessionMiddleware loads the request session before the handler runs and
// persists it afterwards.
type SessionMiddleware struct {
	manager *session.Manager
	cookie  CookieConfig
	logger  *zap.Logger
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(manager *session.Manager, cookie CookieConfig, logger *zap.Logger) *SessionMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionMiddleware{manager: manager, cookie: cookie, logger: logger}
}

// Handle attaches the session to the request context.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	sess, err := m.manager.Start(c.UserContext(), c.Cookies(m.cookie.Name))
	if err != nil {
		return err
	}
	c.Locals(sessionKey, sess)

	handlerErr := c.Next()

	// The request context may already be past its deadline.
	ctx := context.WithoutCancel(c.UserContext())
	if err := m.manager.Save(ctx, sess); err != nil {
		m.logger.Error("session save failed", zap.Error(err))
		if handlerErr == nil {
			return err
		}
		return handlerErr
	}

	switch {
	case sess.Destroyed():
		c.Cookie(m.newCookie("", time.Unix(0, 0)))
	case sess.Persisted():
		value, expires, err := m.manager.CookieValue(sess)
		if err != nil {
			return err
		}
		c.Cookie(m.newCookie(value, expires))
	}
	return handlerErr
}

func (m *SessionMiddleware) newCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     m.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// DropInactive logs out sessions whose user was banned, deleted or removed
// since they logged in.
func DropInactive(users repository.UserRepository, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := SessionFromContext(c)
		if !session.IsLoggedIn(sess) {
			return c.Next()
		}
		user, err := users.Find(c.UserContext(), session.UserID(sess))
		switch {
		case errors.Is(err, domain.ErrNotFound):
			logger.Info("dropping session of missing user", zap.String("user_id", session.UserID(sess)))
			session.ClearAuth(sess)
		case err != nil:
			return err
		case !user.Type.Active():
			logger.Info("dropping session of inactive user",
				zap.String("user_id", user.ID), zap.String("type", string(user.Type)))
			session.ClearAuth(sess)
		case user.Type != session.UserType(sess):
			session.SetAuth(sess, user.ID, user.Type)
		}
		return c.Next()
	}
}

// SessionFromContext retrieves the request session.
func SessionFromContext(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionKey).(*session.Session)
	return sess
}
