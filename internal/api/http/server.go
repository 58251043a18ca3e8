package http

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// ServerConfig bundles everything needed to assemble the HTTP application.
type ServerConfig struct {
	Name           string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Sessions       *auth.SessionMiddleware
	Users          repository.UserRepository
	Routes         RouteConfig
}

// NewApp builds a fiber application using goccy/go-json for encoding.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})
}

// NewServer assembles the application: global middlewares, sessions and routes.
func NewServer(cfg ServerConfig) *fiber.App {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := NewApp(cfg.Name)
	RegisterMiddlewares(app, logger, cfg.Metrics, cfg.RequestTimeout)
	app.Use(cfg.Sessions.Handle)
	app.Use(auth.DropInactive(cfg.Users, logger))

	routes := cfg.Routes
	if routes.Metrics == nil {
		routes.Metrics = cfg.Metrics
	}
	RegisterRoutes(app, routes)
	return app
}
