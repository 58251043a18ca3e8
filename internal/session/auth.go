package session

import "github.com/spec-kit/helpdesk/internal/domain"

const (
	keyAuthUserID   = "auth_user_id"
	keyAuthUserType = "auth_user_type"
)

// SetAuth records the logged-in user.
func SetAuth(s *Session, userID string, userType domain.UserType) {
	s.Set(keyAuthUserID, userID)
	s.Set(keyAuthUserType, string(userType))
}

// ClearAuth forgets the logged-in user.
func ClearAuth(s *Session) {
	s.Delete(keyAuthUserID, keyAuthUserType)
}

// UserID returns the logged-in user's id, or "" when logged out.
func UserID(s *Session) string {
	if s == nil {
		return ""
	}
	id, _ := s.Get(keyAuthUserID)
	return id
}

// UserType returns the user type captured at login.
func UserType(s *Session) domain.UserType {
	if s == nil {
		return ""
	}
	t, _ := s.Get(keyAuthUserType)
	return domain.UserType(t)
}

// IsLoggedIn reports whether a user id is stored.
func IsLoggedIn(s *Session) bool {
	return UserID(s) != ""
}
