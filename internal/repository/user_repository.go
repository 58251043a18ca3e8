package repository

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	Find(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

var userSchema = Schema[domain.User]{
	Table:   "users",
	Columns: []string{"email", "first_name", "last_name", "password", "type"},
	Fields: func(u *domain.User) []any {
		return []any{&u.Email, &u.FirstName, &u.LastName, &u.Password, &u.Type}
	},
	Meta: func(u *domain.User) (*string, *time.Time, *time.Time) {
		return &u.ID, &u.CreatedAt, &u.UpdatedAt
	},
	NotFound: domain.ErrUserNotFound,
}

type userRepository struct {
	*Table[domain.User]
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db Querier) UserRepository {
	return &userRepository{Table: NewTable(db, userSchema)}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.FindOneBy(ctx, "email", email)
}
