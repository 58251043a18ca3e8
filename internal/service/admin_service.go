package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/session"
	"github.com/spec-kit/helpdesk/internal/validation"
)

// AdminService holds administrator-only account operations.
type AdminService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// AdminDependencies bundles repositories for the admin service.
type AdminDependencies struct {
	UserRepo repository.UserRepository
	Logger   *zap.Logger
}

// NewAdminService builds the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{users: deps.UserRepo, logger: logger}
}

// BanUser marks the account banned.
func (s *AdminService) BanUser(ctx context.Context, sess *session.Session, id string) (*domain.User, error) {
	return s.setType(ctx, sess, id, domain.UserTypeBanned)
}

// UnbanUser restores a banned account to member.
func (s *AdminService) UnbanUser(ctx context.Context, sess *session.Session, id string) (*domain.User, error) {
	return s.setType(ctx, sess, id, domain.UserTypeMember)
}

func (s *AdminService) setType(ctx context.Context, sess *session.Session, rawID string, next domain.UserType) (*domain.User, error) {
	caller, err := requireAdmin(ctx, s.users, sess)
	if err != nil {
		return nil, err
	}
	id, err := validation.ParseID("id", rawID)
	if err != nil {
		return nil, err
	}
	target, err := s.users.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case target.Type == domain.UserTypeDeleted:
		return nil, domain.NewLogicError(domain.ReasonInvalidState, "user is deleted")
	case target.ID == caller.ID:
		return nil, domain.NewLogicError(domain.ReasonInvalidState, "you cannot change your own ban state")
	case target.IsAdmin():
		return nil, domain.ErrForbidden("administrators cannot be banned")
	case next == domain.UserTypeBanned && target.Type == domain.UserTypeBanned:
		return nil, domain.NewLogicError(domain.ReasonInvalidState, "user is already banned")
	case next == domain.UserTypeMember && target.Type != domain.UserTypeBanned:
		return nil, domain.NewLogicError(domain.ReasonInvalidState, "user is not banned")
	}

	target.Type = next
	if err := s.users.Save(ctx, target); err != nil {
		return nil, err
	}
	s.logger.Info("user type changed",
		zap.String("admin_id", caller.ID), zap.String("user_id", target.ID), zap.String("type", string(next)))
	return target, nil
}
