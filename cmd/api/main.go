package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/csrf"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/session"
	"github.com/spec-kit/helpdesk/internal/worker"
)

const (
	shutdownTimeout       = 10 * time.Second
	notificationQueueSize = 256
)

func main() {
	envFile := pflag.String("env-file", "", "dotenv file to load before reading the environment")
	migrateOnly := pflag.Bool("migrate-only", false, "apply migrations and exit")
	promoteAdmin := pflag.String("promote-admin", "", "grant the admin type to the account with this email and exit")
	pflag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations || *migrateOnly {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}
	if *migrateOnly {
		return
	}

	userRepo := repository.NewUserRepository(pg.Pool)
	ticketRepo := repository.NewTicketRepository(pg.Pool)
	replyRepo := repository.NewReplyRepository(pg.Pool)
	resetRepo := repository.NewPasswordResetRepository(pg.Pool)

	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   userRepo,
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	})

	if *promoteAdmin != "" {
		user, err := userService.Promote(ctx, *promoteAdmin)
		if err != nil {
			logger.Fatal("failed to promote admin", zap.String("email", *promoteAdmin), zap.Error(err))
		}
		logger.Info("promoted admin", zap.String("user_id", user.ID))
		return
	}

	healthDeps := map[string]handlers.Pinger{"postgres": pg}
	var redisClient *persistence.Redis
	if cfg.Session.Driver == config.SessionDriverRedis {
		redisClient, err = persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redisClient.Close()
		healthDeps["redis"] = redisClient
	}

	sessionHandler, err := buildSessionHandler(cfg, pg, redisClient)
	if err != nil {
		logger.Fatal("failed to build session handler", zap.Error(err))
	}
	manager := session.NewManager(
		sessionHandler,
		session.NewCookieSigner(cfg.Session.SigningSecret, cfg.Session.Lifetime),
		cfg.Session.Lifetime,
		logger,
	)

	metrics := observability.NewMetrics()
	mailer := notify.New(cfg.Mail, logger)
	dispatcher := worker.NewNotificationWorker(events.NewInMemoryDispatcher(), notificationQueueSize, logger)
	guard := csrf.NewGuard(cfg.CSRF.TokenTTL)
	loginLimiter := httptransport.NewRateLimiter(cfg.Auth.LoginRatePerMinute, cfg.Auth.LoginBurst)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo: userRepo,
		Metrics:  metrics,
		Logger:   logger,
	})
	adminService := service.NewAdminService(service.AdminDependencies{UserRepo: userRepo, Logger: logger})
	ticketService := service.NewTicketService(service.TicketDependencies{
		UserRepo:   userRepo,
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	replyService := service.NewReplyService(service.ReplyDependencies{
		UserRepo:   userRepo,
		TicketRepo: ticketRepo,
		ReplyRepo:  replyRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	resetService := service.NewPasswordResetService(service.PasswordResetDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Mailer:            mailer,
		TTL:               cfg.Auth.PasswordResetTTL(),
		BcryptCost:        cfg.Auth.BcryptCost,
		ResetURL:          cfg.Mail.ResetURLBase,
		Logger:            logger,
	})
	worker.StartNotificationWorker(dispatcher, service.NewNotificationService(dispatcher, userRepo, mailer, logger))

	gc, err := worker.NewSessionGC(cfg.Session.GCSchedule, sessionHandler, time.Hour, logger, loginLimiter)
	if err != nil {
		logger.Fatal("failed to schedule session gc", zap.Error(err))
	}
	gc.Start()

	app := httptransport.NewServer(httptransport.ServerConfig{
		Name:           cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        metrics,
		Sessions: auth.NewSessionMiddleware(manager, auth.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.App.SecureCookies,
		}, logger),
		Users: userRepo,
		Routes: httptransport.RouteConfig{
			Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, healthDeps),
			Auth:          handlers.NewAuthHandler(authService, guard),
			Users:         handlers.NewUsersHandler(userService, adminService, ticketService, guard),
			Tickets:       handlers.NewTicketsHandler(ticketService, replyService, guard),
			Replies:       handlers.NewRepliesHandler(replyService),
			PasswordReset: handlers.NewPasswordResetHandler(resetService, guard),
			Guard:         guard,
			LoginLimiter:  loginLimiter,
		},
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("session_driver", cfg.Session.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	gc.Stop(shutdownCtx)
	dispatcher.Stop(shutdownCtx)
}

// buildSessionHandler selects the storage driver. Persisted drivers are
// wrapped in an authenticated cipher.
func buildSessionHandler(cfg *config.Config, pg *persistence.Postgres, rd *persistence.Redis) (session.Handler, error) {
	var handler session.Handler
	switch cfg.Session.Driver {
	case config.SessionDriverMemory:
		return session.NewMemoryHandler(cfg.Session.Lifetime), nil
	case config.SessionDriverFile:
		fh, err := session.NewFileHandler(cfg.Session.FileDir, cfg.Session.Lifetime)
		if err != nil {
			return nil, err
		}
		handler = fh
	case config.SessionDriverDatabase:
		handler = session.NewDatabaseHandler(pg.Pool, cfg.Session.Lifetime)
	case config.SessionDriverRedis:
		handler = session.NewRedisHandler(rd.Client, cfg.Session.Lifetime)
	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
	}
	encrypted, err := session.NewCipher(handler, []byte(cfg.Session.EncryptionKey))
	if err != nil {
		return nil, err
	}
	return encrypted, nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
