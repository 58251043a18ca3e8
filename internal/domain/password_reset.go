package domain

import "time"

// PasswordReset stores the hash of an outstanding reset token.
type PasswordReset struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the token is older than ttl at now.
func (p *PasswordReset) Expired(ttl time.Duration, now time.Time) bool {
	return !p.CreatedAt.Add(ttl).After(now)
}
