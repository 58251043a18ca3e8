package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/csrf"
	"github.com/spec-kit/helpdesk/internal/observability"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Users         *handlers.UsersHandler
	Tickets       *handlers.TicketsHandler
	Replies       *handlers.RepliesHandler
	PasswordReset *handlers.PasswordResetHandler
	Guard         *csrf.Guard
	LoginLimiter  *RateLimiter
	Metrics       *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Get("/login", auth.RequireGuest(), cfg.Auth.LoginPage)
	app.Get("/register", auth.RequireGuest(), cfg.Users.RegisterPage)
	app.Get("/password-reset", cfg.PasswordReset.Page)
	app.Get("/account", auth.RequireLogin(), cfg.Users.Account)
	app.Get("/users/:id", cfg.Users.Show)

	app.Get("/tickets", cfg.Tickets.Index)
	app.Get("/tickets/create", auth.RequireLogin(), cfg.Tickets.CreatePage)
	app.Get("/tickets/edit/:id", auth.RequireLogin(), cfg.Tickets.EditPage)
	app.Get("/tickets/:id", cfg.Tickets.Show)

	// CSRF is checked per route so unknown /ajax paths still fall through to 404.
	ajax := app.Group("/ajax")
	protect := csrf.Protect(cfg.Guard)

	login := []fiber.Handler{protect}
	if cfg.LoginLimiter != nil {
		login = append(login, cfg.LoginLimiter.Handler())
	}
	ajax.Post("/auth/login", append(login, cfg.Auth.Login)...)
	ajax.Post("/auth/logout", protect, cfg.Auth.Logout)
	ajax.Post("/register", protect, cfg.Users.Register)

	ajax.Post("/ticket/store", protect, cfg.Tickets.Store)
	ajax.Post("/ticket/update", protect, cfg.Tickets.Update)
	ajax.Post("/ticket/delete", protect, cfg.Tickets.Delete)
	ajax.Post("/ticket/status/update", protect, cfg.Tickets.UpdateStatus)

	ajax.Post("/reply/create", protect, cfg.Replies.Create)
	ajax.Post("/reply/update", protect, cfg.Replies.Update)
	ajax.Post("/reply/delete", protect, cfg.Replies.Delete)

	ajax.Post("/user/update", protect, cfg.Users.Update)
	ajax.Post("/user/delete", protect, cfg.Users.Delete)
	ajax.Post("/user/ban", protect, cfg.Users.Ban)
	ajax.Post("/user/unban", protect, cfg.Users.Unban)

	ajax.Post("/password-reset/send", protect, cfg.PasswordReset.Send)
	ajax.Post("/password-reset/reset", protect, cfg.PasswordReset.Reset)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewDomainError("NOT_FOUND", "page not found", fiber.StatusNotFound)
	})
}
