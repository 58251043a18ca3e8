package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify/notifytest"
	"github.com/spec-kit/helpdesk/internal/repository/repotest"
	"github.com/spec-kit/helpdesk/internal/session"
)

const testPassword = "12345678"

type fixture struct {
	users   *repotest.Users
	tickets *repotest.Tickets
	replies *repotest.Replies
	resets  *repotest.Resets
	mailer  *notifytest.Recorder
	events  []events.Event

	auth     *AuthService
	user     *UserService
	admin    *AdminService
	ticket   *TicketService
	reply    *ReplyService
	reset    *PasswordResetService
	notifier *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:   repotest.NewUsers(),
		tickets: repotest.NewTickets(),
		replies: repotest.NewReplies(),
		resets:  repotest.NewResets(),
		mailer:  notifytest.NewRecorder(),
	}
	dispatcher := events.NewInMemoryDispatcher()
	record := func(_ context.Context, e events.Event) error {
		f.events = append(f.events, e)
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, record)
	dispatcher.Subscribe(events.EventTicketStatusChanged, record)
	dispatcher.Subscribe(events.EventReplyCreated, record)

	f.auth = NewAuthService(AuthDependencies{UserRepo: f.users})
	f.user = NewUserService(UserDependencies{UserRepo: f.users, BcryptCost: bcrypt.MinCost})
	f.admin = NewAdminService(AdminDependencies{UserRepo: f.users})
	f.ticket = NewTicketService(TicketDependencies{UserRepo: f.users, TicketRepo: f.tickets, Dispatcher: dispatcher})
	f.reply = NewReplyService(ReplyDependencies{
		UserRepo:   f.users,
		TicketRepo: f.tickets,
		ReplyRepo:  f.replies,
		Dispatcher: dispatcher,
	})
	f.reset = NewPasswordResetService(PasswordResetDependencies{
		UserRepo:          f.users,
		PasswordResetRepo: f.resets,
		Mailer:            f.mailer,
		TTL:               time.Hour,
		BcryptCost:        bcrypt.MinCost,
		ResetURL:          "http://helpdesk.test/password-reset",
	})
	f.notifier = NewNotificationService(dispatcher, f.users, f.mailer, nil)
	f.notifier.RegisterHandlers()
	return f
}

func (f *fixture) addUser(t *testing.T, email string, userType domain.UserType) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{Email: email, FirstName: "Test", LastName: "User", Password: hash, Type: userType}
	require.NoError(t, f.users.Save(context.Background(), user))
	return user
}

func (f *fixture) addTicket(t *testing.T, owner *domain.User, status domain.TicketStatus) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{UserID: owner.ID, Title: "Printer", Description: "The printer is on fire.", Status: status}
	require.NoError(t, f.tickets.Save(context.Background(), ticket))
	return ticket
}

func (f *fixture) reload(t *testing.T, id string) *domain.User {
	t.Helper()
	user, err := f.users.Find(context.Background(), id)
	require.NoError(t, err)
	return user
}

func guest(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New()
	require.NoError(t, err)
	return sess
}

func loggedIn(t *testing.T, user *domain.User) *session.Session {
	t.Helper()
	sess := guest(t)
	session.SetAuth(sess, user.ID, user.Type)
	return sess
}
