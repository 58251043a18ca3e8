package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/validation"
)

const resetTokenBytes = 32

// PasswordResetService issues and redeems password reset tokens.
type PasswordResetService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	mailer     notify.Mailer
	ttl        time.Duration
	bcryptCost int
	resetURL   string
	now        func() time.Time
	logger     *zap.Logger
}

// PasswordResetDependencies bundles requirements for the reset service.
type PasswordResetDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Mailer            notify.Mailer
	TTL               time.Duration
	BcryptCost        int
	ResetURL          string
	Logger            *zap.Logger
}

// NewPasswordResetService builds the service.
func NewPasswordResetService(deps PasswordResetDependencies) *PasswordResetService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PasswordResetService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		mailer:     deps.Mailer,
		ttl:        deps.TTL,
		bcryptCost: deps.BcryptCost,
		resetURL:   deps.ResetURL,
		now:        time.Now,
		logger:     logger,
	}
}

// Send mails a reset link to the account with the given email. Earlier
// tokens for the account stop working.
func (s *PasswordResetService) Send(ctx context.Context, in validation.ResetRequestInput) error {
	in.Email = validation.SanitizeEmail(in.Email)
	if err := validation.ValidateResetRequest(in); err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if !user.Type.Active() {
		return domain.NewLogicError(domain.ReasonAccountDisabled, "account is disabled")
	}

	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	token := hex.EncodeToString(buf)

	if err := s.resets.DeleteByUser(ctx, user.ID); err != nil {
		return err
	}
	if err := s.resets.Save(ctx, &domain.PasswordReset{UserID: user.ID, Token: hashToken(token)}); err != nil {
		return err
	}

	link := s.resetURL + "?token=" + url.QueryEscape(token)
	msg := notify.Message{
		To:      user.Email,
		Subject: "Reset your password",
		Body: fmt.Sprintf("Hello %s,\n\nUse the link below to choose a new password. It expires in %s.\n\n%s\n",
			user.FullName(), s.ttl, link),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	s.logger.Info("password reset sent", zap.String("user_id", user.ID))
	return nil
}

// Reset sets a new password using a token from Send.
func (s *PasswordResetService) Reset(ctx context.Context, in validation.ResetInput) error {
	validation.SanitizePasswordReset(&in)
	if err := validation.ValidatePasswordReset(in); err != nil {
		return err
	}
	reset, err := s.resets.FindByToken(ctx, hashToken(in.Token))
	if err != nil {
		return err
	}
	if reset.Expired(s.ttl, s.now()) {
		return domain.NewLogicError(domain.ReasonInvalidState, "password reset token has expired")
	}
	user, err := s.users.Find(ctx, reset.UserID)
	if err != nil {
		return err
	}
	if !user.Type.Active() {
		return domain.NewLogicError(domain.ReasonAccountDisabled, "account is disabled")
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return err
	}
	user.Password = hash
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	if err := s.resets.DeleteByUser(ctx, user.ID); err != nil {
		return err
	}
	s.logger.Info("password reset completed", zap.String("user_id", user.ID))
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
