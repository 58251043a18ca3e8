package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func validUser() UserInput {
	return UserInput{
		Email:           "jane@example.com",
		FirstName:       "Jane",
		LastName:        "Doe",
		Password:        "12345678",
		PasswordConfirm: "12345678",
	}
}

func requireField(t *testing.T, err error, field string) {
	t.Helper()
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, field, vErr.Field)
}

func TestSanitizeUser(t *testing.T) {
	in := UserInput{
		Email:     "  Jane (x)@Example.COM ",
		FirstName: " <b>Jane</b> ",
		LastName:  "<script>alert(1)</script>Doe",
		Password:  " keep spaces ",
	}
	SanitizeUser(&in)

	assert.Equal(t, "janex@example.com", in.Email)
	assert.Equal(t, "Jane", in.FirstName)
	assert.Equal(t, "alert(1)Doe", in.LastName)
	assert.Equal(t, " keep spaces ", in.Password)
}

func TestStripTagsPlainText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trims", "  hello world ", "hello world"},
		{"void tag", "a <br/> b", "a  b"},
		{"escaped markup stays escaped", "<i></i>&lt;script&gt;alert(1)&lt;/script&gt;", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"entity inside tags", "<b>a &amp; b</b>", "a &amp; b"},
		{"entity without tags", "a &amp; b", "a &amp; b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StripTags(tc.in)
			assert.Equal(t, tc.want, got)
			assert.NotContains(t, got, "<")
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("id", " 6F9619FF-8B86-D011-B42D-00C04FC964FF ")
	require.NoError(t, err)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", id)

	_, err = ParseID("ticket_id", "12")
	requireField(t, err, "ticket_id")

	_, err = ParseID("id", "")
	requireField(t, err, "id")
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("-3"))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 4, ParsePage("4"))
	assert.Equal(t, MaxPage, ParsePage("9223372036854775807"))
}

func TestValidateRegistration(t *testing.T) {
	require.NoError(t, ValidateRegistration(validUser()))

	cases := []struct {
		name   string
		mutate func(*UserInput)
		field  string
	}{
		{"missing email", func(u *UserInput) { u.Email = "" }, "email"},
		{"bad email", func(u *UserInput) { u.Email = "not-an-email" }, "email"},
		{"long first name", func(u *UserInput) { u.FirstName = strings.Repeat("a", 101) }, "first_name"},
		{"missing last name", func(u *UserInput) { u.LastName = "" }, "last_name"},
		{"short password", func(u *UserInput) { u.Password, u.PasswordConfirm = "short", "short" }, "password"},
		{"confirm mismatch", func(u *UserInput) { u.PasswordConfirm = "87654321" }, "password_confirm"},
		{"missing password", func(u *UserInput) { u.Password, u.PasswordConfirm = "", "" }, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validUser()
			tc.mutate(&in)
			requireField(t, ValidateRegistration(in), tc.field)
		})
	}
}

func TestValidateRegistrationReportsFirstViolation(t *testing.T) {
	in := validUser()
	in.Email = ""
	in.FirstName = ""
	err := ValidateRegistration(in)
	requireField(t, err, "email")
	assert.Equal(t, "email: email is required", err.Error())
}

func TestValidateUserUpdateAllowsEmptyPassword(t *testing.T) {
	in := validUser()
	in.Password, in.PasswordConfirm = "", ""
	assert.NoError(t, ValidateUserUpdate(in))
}

func TestValidateTicket(t *testing.T) {
	assert.NoError(t, ValidateTicket(TicketInput{Title: "Printer", Description: "It is on fire again."}))
	requireField(t, ValidateTicket(TicketInput{Title: "ab", Description: "It is on fire again."}), "title")
	requireField(t, ValidateTicket(TicketInput{Title: "Printer", Description: "short"}), "description")
}

func TestValidateStatus(t *testing.T) {
	assert.NoError(t, ValidateStatus(StatusInput{Status: domain.TicketStatusSolved}))
	requireField(t, ValidateStatus(StatusInput{Status: "archived"}), "status")
	requireField(t, ValidateStatus(StatusInput{Status: domain.TicketStatusDeleted}), "status")
	requireField(t, ValidateStatus(StatusInput{}), "status")
}

func TestValidateReply(t *testing.T) {
	assert.NoError(t, ValidateReply(ReplyInput{Message: "ok"}))
	requireField(t, ValidateReply(ReplyInput{}), "message")
	requireField(t, ValidateReply(ReplyInput{Message: strings.Repeat("x", 5001)}), "message")
}

func TestValidatePasswordReset(t *testing.T) {
	assert.NoError(t, ValidatePasswordReset(ResetInput{Token: "t", Password: "12345678", PasswordConfirm: "12345678"}))
	requireField(t, ValidatePasswordReset(ResetInput{Password: "12345678", PasswordConfirm: "12345678"}), "token")
	requireField(t, ValidatePasswordReset(ResetInput{Token: "t", Password: "12345678", PasswordConfirm: "x"}), "password_confirm")
}

func TestValidateUserType(t *testing.T) {
	assert.NoError(t, ValidateUserType(domain.UserTypeBanned))
	requireField(t, ValidateUserType("root"), "type")
	requireField(t, ValidateUserType(""), "type")
}

func TestPasswordByteLimit(t *testing.T) {
	// 40 two-byte runes pass the character count but exceed bcrypt's 72 bytes.
	long := strings.Repeat("é", 40)

	in := validUser()
	in.Password, in.PasswordConfirm = long, long
	err := ValidateRegistration(in)
	requireField(t, err, "password")
	assert.Contains(t, err.Error(), "72 bytes")

	requireField(t, ValidateUserUpdate(in), "password")
	requireField(t, ValidatePasswordReset(ResetInput{Token: "t", Password: long, PasswordConfirm: long}), "password")

	ascii := strings.Repeat("a", 72)
	in.Password, in.PasswordConfirm = ascii, ascii
	assert.NoError(t, ValidateRegistration(in))
}
