package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/session"
	"github.com/spec-kit/helpdesk/internal/validation"
)

// UserService manages accounts.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// UserDependencies bundles requirements for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	BcryptCost int
	Logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: deps.UserRepo, bcryptCost: deps.BcryptCost, logger: logger}
}

// Register creates a member account. Logged-in sessions cannot register.
func (s *UserService) Register(ctx context.Context, sess *session.Session, in validation.UserInput) (*domain.User, error) {
	if session.IsLoggedIn(sess) {
		return nil, domain.NewLogicError(domain.ReasonInvalidState, "already logged in")
	}
	validation.SanitizeUser(&in)
	if err := validation.ValidateRegistration(in); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, in.Email, ""); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hash,
		Type:      domain.UserTypeMember,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Get returns a user's public profile. Deleted accounts are hidden.
func (s *UserService) Get(ctx context.Context, rawID string) (*domain.User, error) {
	id, err := validation.ParseID("id", rawID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Type == domain.UserTypeDeleted {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// Account returns the logged-in user.
func (s *UserService) Account(ctx context.Context, sess *session.Session) (*domain.User, error) {
	return currentUser(ctx, s.users, sess)
}

// Update changes a profile. Users may edit themselves; administrators may
// edit anyone. An empty in.ID targets the caller.
func (s *UserService) Update(ctx context.Context, sess *session.Session, in validation.UserInput) (*domain.User, error) {
	caller, err := currentUser(ctx, s.users, sess)
	if err != nil {
		return nil, err
	}
	target, err := s.target(ctx, caller, in.ID)
	if err != nil {
		return nil, err
	}

	validation.SanitizeUser(&in)
	if err := validation.ValidateUserUpdate(in); err != nil {
		return nil, err
	}
	if in.Email != target.Email {
		if err := s.ensureEmailFree(ctx, in.Email, target.ID); err != nil {
			return nil, err
		}
	}

	target.Email = in.Email
	target.FirstName = in.FirstName
	target.LastName = in.LastName
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		target.Password = hash
	}
	if err := s.users.Save(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// Delete soft-deletes an account and scrubs its personal data. Deleting
// yourself also logs you out.
func (s *UserService) Delete(ctx context.Context, sess *session.Session, rawID string) error {
	caller, err := currentUser(ctx, s.users, sess)
	if err != nil {
		return err
	}
	target, err := s.target(ctx, caller, rawID)
	if err != nil {
		return err
	}
	if target.ID != caller.ID && target.IsAdmin() {
		return domain.ErrForbidden("administrators cannot delete other administrators")
	}

	target.Scrub()
	if err := s.users.Save(ctx, target); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", target.ID), zap.String("by", caller.ID))

	if target.ID == caller.ID {
		session.ClearAuth(sess)
		return sess.Regenerate()
	}
	return nil
}

// Promote grants administrator rights to the account with email.
func (s *UserService) Promote(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, validation.SanitizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user.Type == domain.UserTypeDeleted {
		return nil, domain.NewLogicError(domain.ReasonInvalidState, "user is deleted")
	}
	user.Type = domain.UserTypeAdmin
	if err := validation.ValidateUserType(user.Type); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user promoted to admin", zap.String("user_id", user.ID))
	return user, nil
}

func (s *UserService) target(ctx context.Context, caller *domain.User, rawID string) (*domain.User, error) {
	if rawID == "" || rawID == caller.ID {
		return caller, nil
	}
	id, err := validation.ParseID("id", rawID)
	if err != nil {
		return nil, err
	}
	if id != caller.ID && !caller.IsAdmin() {
		return nil, domain.ErrForbidden("you may only change your own account")
	}
	target, err := s.users.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if target.Type == domain.UserTypeDeleted {
		return nil, domain.ErrUserNotFound
	}
	return target, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != ownerID:
		return domain.NewValidationError("email", "email is already registered")
	}
	return nil
}
