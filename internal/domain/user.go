package domain

import (
	"strings"
	"time"
)

// UserType represents the role and lifecycle state of an account.
type UserType string

const (
	UserTypeMember  UserType = "member"
	UserTypeAdmin   UserType = "admin"
	UserTypeBanned  UserType = "banned"
	UserTypeDeleted UserType = "deleted"
)

// UserTypes lists every accepted user type.
var UserTypes = []UserType{UserTypeMember, UserTypeAdmin, UserTypeBanned, UserTypeDeleted}

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	for _, known := range UserTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Active reports whether accounts of this type may log in.
func (t UserType) Active() bool {
	return t == UserTypeMember || t == UserTypeAdmin
}

// User is an account that can open tickets and post replies.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Type      UserType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user holds the admin type.
func (u *User) IsAdmin() bool {
	return u != nil && u.Type == UserTypeAdmin
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Scrub removes personal data and marks the account deleted. The email is
// replaced with a unique placeholder so the unique index stays satisfied.
func (u *User) Scrub() {
	u.Email = "deleted+" + u.ID + "@invalid"
	u.FirstName = ""
	u.LastName = ""
	u.Password = ""
	u.Type = UserTypeDeleted
}
