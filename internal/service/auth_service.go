package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/session"
	"github.com/spec-kit/helpdesk/internal/validation"
)

// Login outcomes reported to metrics.
const (
	LoginSucceeded   = "success"
	LoginInvalid     = "invalid"
	LoginUnknownUser = "unknown_user"
	LoginBadPassword = "bad_password"
	LoginDisabled    = "disabled"
)

// AuthService coordinates login and logout flows.
type AuthService struct {
	users   repository.UserRepository
	metrics *observability.Metrics
	logger  *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: deps.UserRepo, metrics: deps.Metrics, logger: logger}
}

// Login authenticates the credentials and binds the user to sess. On any
// failure sess is left untouched.
func (s *AuthService) Login(ctx context.Context, sess *session.Session, in validation.LoginInput) (*domain.User, error) {
	validation.SanitizeLogin(&in)
	if err := validation.ValidateLogin(in); err != nil {
		s.metrics.RecordLogin(LoginInvalid)
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.RecordLogin(LoginUnknownUser)
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.Password, in.Password); err != nil {
		if errors.Is(err, domain.ErrPasswordMismatch) {
			s.metrics.RecordLogin(LoginBadPassword)
		}
		return nil, err
	}
	if !user.Type.Active() {
		s.metrics.RecordLogin(LoginDisabled)
		return nil, domain.NewLogicError(domain.ReasonAccountDisabled, "account is disabled")
	}

	if err := sess.Regenerate(); err != nil {
		return nil, err
	}
	session.SetAuth(sess, user.ID, user.Type)
	s.metrics.RecordLogin(LoginSucceeded)
	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return user, nil
}

// Logout unbinds the user from sess.
func (s *AuthService) Logout(_ context.Context, sess *session.Session) error {
	if !session.IsLoggedIn(sess) {
		return domain.ErrNotLoggedIn()
	}
	userID := session.UserID(sess)
	session.ClearAuth(sess)
	if err := sess.Regenerate(); err != nil {
		return err
	}
	s.logger.Info("user logged out", zap.String("user_id", userID))
	return nil
}

// CurrentUser returns the logged-in user, freshly loaded.
func (s *AuthService) CurrentUser(ctx context.Context, sess *session.Session) (*domain.User, error) {
	return currentUser(ctx, s.users, sess)
}

// RequireUser is CurrentUser for callers that only need the check.
func (s *AuthService) RequireUser(ctx context.Context, sess *session.Session) error {
	_, err := currentUser(ctx, s.users, sess)
	return err
}

// RequireAdmin fails unless the logged-in user is an administrator.
func (s *AuthService) RequireAdmin(ctx context.Context, sess *session.Session) (*domain.User, error) {
	return requireAdmin(ctx, s.users, sess)
}
