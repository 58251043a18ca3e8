package repository

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// PasswordResetRepository manages password reset token persistence.
type PasswordResetRepository interface {
	Save(ctx context.Context, reset *domain.PasswordReset) error
	// FindByToken looks a reset up by the hash of its token.
	FindByToken(ctx context.Context, tokenHash string) (*domain.PasswordReset, error)
	DeleteByUser(ctx context.Context, userID string) error
}

var passwordResetSchema = Schema[domain.PasswordReset]{
	Table:   "password_resets",
	Columns: []string{"user_id", "token"},
	Fields: func(p *domain.PasswordReset) []any {
		return []any{&p.UserID, &p.Token}
	},
	Meta: func(p *domain.PasswordReset) (*string, *time.Time, *time.Time) {
		return &p.ID, &p.CreatedAt, &p.UpdatedAt
	},
	NotFound: domain.ErrResetTokenNotFound,
}

type passwordResetRepository struct {
	*Table[domain.PasswordReset]
}

// NewPasswordResetRepository constructs repository.
func NewPasswordResetRepository(db Querier) PasswordResetRepository {
	return &passwordResetRepository{Table: NewTable(db, passwordResetSchema)}
}

func (r *passwordResetRepository) FindByToken(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	return r.FindOneBy(ctx, "token", tokenHash)
}

func (r *passwordResetRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.DeleteBy(ctx, "user_id", userID)
	return err
}
