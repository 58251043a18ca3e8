// Package repotest provides in-memory repositories for service and handler tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// Users is an in-memory UserRepository.
type Users struct {
	mu    sync.Mutex
	rows  map[string]domain.User
	Saves int
}

// NewUsers returns an empty Users store.
func NewUsers() *Users {
	return &Users{rows: map[string]domain.User{}}
}

func (r *Users) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.rows {
		if id != user.ID && existing.Email == user.Email {
			return domain.NewValidationError("", "a record with the same values already exists")
		}
	}
	now := time.Now()
	if user.ID == "" {
		user.ID = uuid.NewString()
		user.CreatedAt = now
	} else if _, ok := r.rows[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = now
	r.rows[user.ID] = *user
	r.Saves++
	return nil
}

func (r *Users) Find(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.rows {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Tickets is an in-memory TicketRepository.
type Tickets struct {
	mu   sync.Mutex
	rows map[string]domain.Ticket
	seq  int
}

// NewTickets returns an empty Tickets store.
func NewTickets() *Tickets {
	return &Tickets{rows: map[string]domain.Ticket{}}
}

func (r *Tickets) Save(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
		// seq keeps creation order stable when timestamps collide.
		r.seq++
		ticket.CreatedAt = now.Add(time.Duration(r.seq))
	} else if _, ok := r.rows[ticket.ID]; !ok {
		return domain.ErrTicketNotFound
	}
	ticket.UpdatedAt = now
	r.rows[ticket.ID] = *ticket
	return nil
}

func (r *Tickets) Find(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return &ticket, nil
}

// Len returns the number of stored tickets, deleted ones included.
func (r *Tickets) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *Tickets) ListVisible(_ context.Context, page, perPage int) (*repository.Page[domain.Ticket], error) {
	return r.list(page, perPage, func(t domain.Ticket) bool { return true })
}

func (r *Tickets) ListByUser(_ context.Context, userID string, page, perPage int) (*repository.Page[domain.Ticket], error) {
	return r.list(page, perPage, func(t domain.Ticket) bool { return t.UserID == userID })
}

func (r *Tickets) list(page, perPage int, keep func(domain.Ticket) bool) (*repository.Page[domain.Ticket], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	var all []*domain.Ticket
	for _, t := range r.rows {
		if t.Status == domain.TicketStatusDeleted || !keep(t) {
			continue
		}
		ticket := t
		all = append(all, &ticket)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	return &repository.Page[domain.Ticket]{Items: all[start:end], Page: page, PerPage: perPage, Total: len(all)}, nil
}

// Replies is an in-memory ReplyRepository.
type Replies struct {
	mu   sync.Mutex
	rows map[string]domain.Reply
	seq  int
}

// NewReplies returns an empty Replies store.
func NewReplies() *Replies {
	return &Replies{rows: map[string]domain.Reply{}}
}

func (r *Replies) Save(_ context.Context, reply *domain.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if reply.ID == "" {
		reply.ID = uuid.NewString()
		r.seq++
		reply.CreatedAt = now.Add(time.Duration(r.seq))
	} else if _, ok := r.rows[reply.ID]; !ok {
		return domain.ErrReplyNotFound
	}
	reply.UpdatedAt = now
	r.rows[reply.ID] = *reply
	return nil
}

func (r *Replies) Find(_ context.Context, id string) (*domain.Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reply, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrReplyNotFound
	}
	return &reply, nil
}

func (r *Replies) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrReplyNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *Replies) ListByTicket(_ context.Context, ticketID string) ([]*domain.Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Reply
	for _, reply := range r.rows {
		if reply.TicketID == ticketID {
			rp := reply
			out = append(out, &rp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Resets is an in-memory PasswordResetRepository.
type Resets struct {
	mu   sync.Mutex
	rows map[string]domain.PasswordReset
	// Now stamps CreatedAt on insert.
	Now func() time.Time
}

// NewResets returns an empty Resets store.
func NewResets() *Resets {
	return &Resets{rows: map[string]domain.PasswordReset{}, Now: time.Now}
}

func (r *Resets) Save(_ context.Context, reset *domain.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.Now()
	if reset.ID == "" {
		reset.ID = uuid.NewString()
		reset.CreatedAt = now
	}
	reset.UpdatedAt = now
	r.rows[reset.ID] = *reset
	return nil
}

func (r *Resets) FindByToken(_ context.Context, tokenHash string) (*domain.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reset := range r.rows {
		if reset.Token == tokenHash {
			rs := reset
			return &rs, nil
		}
	}
	return nil, domain.ErrResetTokenNotFound
}

func (r *Resets) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, reset := range r.rows {
		if reset.UserID == userID {
			delete(r.rows, id)
		}
	}
	return nil
}

// Len returns the number of stored resets.
func (r *Resets) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

var (
	_ repository.UserRepository          = (*Users)(nil)
	_ repository.TicketRepository        = (*Tickets)(nil)
	_ repository.ReplyRepository         = (*Replies)(nil)
	_ repository.PasswordResetRepository = (*Resets)(nil)
)
