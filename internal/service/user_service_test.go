package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/session"
	"github.com/spec-kit/helpdesk/internal/validation"
)

func registration(email string) validation.UserInput {
	return validation.UserInput{
		Email:           email,
		FirstName:       "Jane",
		LastName:        "Doe",
		Password:        testPassword,
		PasswordConfirm: testPassword,
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	f := newFixture(t)

	user, err := f.user.Register(context.Background(), guest(t), registration("jane@example.com"))
	require.NoError(t, err)

	stored := f.reload(t, user.ID)
	assert.NotEqual(t, testPassword, stored.Password)
	assert.NoError(t, auth.ComparePassword(stored.Password, testPassword))
	assert.Equal(t, domain.UserTypeMember, stored.Type)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.user.Register(context.Background(), guest(t), registration("jane@example.com"))
	require.NoError(t, err)

	_, err = f.user.Register(context.Background(), guest(t), registration("JANE@example.com"))
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)
	assert.Equal(t, 1, f.users.Saves)
}

func TestRegisterWhileLoggedIn(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "jane@example.com", domain.UserTypeMember)

	_, err := f.user.Register(context.Background(), loggedIn(t, user), registration("other@example.com"))
	assert.True(t, domain.IsLogicError(err, domain.ReasonInvalidState))
}

func TestUpdateOwnProfile(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "jane@example.com", domain.UserTypeMember)
	f.addUser(t, "taken@example.com", domain.UserTypeMember)
	sess := loggedIn(t, user)

	in := validation.UserInput{Email: "taken@example.com", FirstName: "J", LastName: "D"}
	_, err := f.user.Update(context.Background(), sess, in)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)

	in.Email = "new@example.com"
	in.Password, in.PasswordConfirm = "new-password", "new-password"
	updated, err := f.user.Update(context.Background(), sess, in)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.NoError(t, auth.ComparePassword(f.reload(t, user.ID).Password, "new-password"))
}

func TestUpdateOtherUserRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	member := f.addUser(t, "member@example.com", domain.UserTypeMember)
	other := f.addUser(t, "other@example.com", domain.UserTypeMember)
	admin := f.addUser(t, "admin@example.com", domain.UserTypeAdmin)

	in := validation.UserInput{ID: other.ID, Email: "other@example.com", FirstName: "Changed", LastName: "Name"}
	_, err := f.user.Update(context.Background(), loggedIn(t, member), in)
	assert.True(t, domain.IsLogicError(err, domain.ReasonForbidden))
	assert.Equal(t, "Test", f.reload(t, other.ID).FirstName)

	_, err = f.user.Update(context.Background(), loggedIn(t, admin), in)
	require.NoError(t, err)
	assert.Equal(t, "Changed", f.reload(t, other.ID).FirstName)
}

func TestDeleteSelfScrubsAndLogsOut(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "jane@example.com", domain.UserTypeMember)
	sess := loggedIn(t, user)

	require.NoError(t, f.user.Delete(context.Background(), sess, ""))

	stored := f.reload(t, user.ID)
	assert.Equal(t, domain.UserTypeDeleted, stored.Type)
	assert.NotEqual(t, "jane@example.com", stored.Email)
	assert.Empty(t, stored.FirstName)
	assert.Empty(t, stored.Password)
	assert.False(t, session.IsLoggedIn(sess))

	_, err := f.user.Get(context.Background(), user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAdminDeletesMemberButNotAdmin(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "admin@example.com", domain.UserTypeAdmin)
	other := f.addUser(t, "admin2@example.com", domain.UserTypeAdmin)
	member := f.addUser(t, "member@example.com", domain.UserTypeMember)
	sess := loggedIn(t, admin)

	require.NoError(t, f.user.Delete(context.Background(), sess, member.ID))
	assert.Equal(t, domain.UserTypeDeleted, f.reload(t, member.ID).Type)
	assert.True(t, session.IsLoggedIn(sess))

	err := f.user.Delete(context.Background(), sess, other.ID)
	assert.True(t, domain.IsLogicError(err, domain.ReasonForbidden))
}

func TestPromote(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "jane@example.com", domain.UserTypeMember)

	promoted, err := f.user.Promote(context.Background(), " JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, promoted.ID)
	assert.Equal(t, domain.UserTypeAdmin, f.reload(t, user.ID).Type)

	_, err = f.user.Promote(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAccountRequiresLogin(t *testing.T) {
	f := newFixture(t)
	_, err := f.user.Account(context.Background(), guest(t))
	assert.True(t, domain.IsLogicError(err, domain.ReasonNotLoggedIn))
}
