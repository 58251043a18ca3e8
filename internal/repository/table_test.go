package repository

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

type call struct {
	sql  string
	args []any
}

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeRows struct {
	n    int
	scan func(i int, dest ...any) error
	i    int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) Next() bool {
	if r.i >= r.n {
		return false
	}
	r.i++
	return true
}
func (r *fakeRows) Scan(dest ...any) error { return r.scan(r.i-1, dest...) }

type fakeDB struct {
	calls    []call
	row      func(sql string) pgx.Row
	rows     *fakeRows
	affected string
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.calls = append(db.calls, call{sql, args})
	return pgconn.NewCommandTag(db.affected), nil
}

func (db *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.calls = append(db.calls, call{sql, args})
	if db.rows == nil {
		return &fakeRows{}, nil
	}
	return db.rows, nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.calls = append(db.calls, call{sql, args})
	return db.row(sql)
}

func errRow(err error) func(string) pgx.Row {
	return func(string) pgx.Row {
		return fakeRow{scan: func(...any) error { return err }}
	}
}

func TestInsertAndUpdateSQL(t *testing.T) {
	table := NewTable(&fakeDB{}, userSchema)

	assert.Equal(t,
		"INSERT INTO users (email, first_name, last_name, password, type) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at",
		table.insertSQL())
	assert.Equal(t,
		"UPDATE users SET email=$1, first_name=$2, last_name=$3, password=$4, type=$5, updated_at=NOW() WHERE id=$6 RETURNING created_at, updated_at",
		table.updateSQL())
}

func TestSaveInsertsWhenIDEmpty(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	db := &fakeDB{row: func(string) pgx.Row {
		return fakeRow{scan: func(dest ...any) error {
			*dest[0].(*string) = "u-1"
			*dest[1].(*time.Time) = now
			*dest[2].(*time.Time) = now
			return nil
		}}
	}}
	repo := NewUserRepository(db)

	user := &domain.User{Email: "a@b.c", Type: domain.UserTypeMember}
	require.NoError(t, repo.Save(context.Background(), user))

	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, now, user.CreatedAt)
	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].sql, "INSERT INTO users")
	assert.Len(t, db.calls[0].args, 5)
}

func TestSaveUpdatesWhenIDSet(t *testing.T) {
	db := &fakeDB{row: func(string) pgx.Row {
		return fakeRow{scan: func(dest ...any) error { return nil }}
	}}
	repo := NewTicketRepository(db)

	ticket := &domain.Ticket{ID: "t-1", Title: "x", Status: domain.TicketStatusPublish}
	require.NoError(t, repo.Save(context.Background(), ticket))

	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].sql, "UPDATE tickets SET")
	assert.Equal(t, "t-1", db.calls[0].args[len(db.calls[0].args)-1])
}

func TestFindMapsNoRowsToNotFound(t *testing.T) {
	repo := NewUserRepository(&fakeDB{row: errRow(pgx.ErrNoRows)})

	_, err := repo.Find(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryFailureIsNotNotFound(t *testing.T) {
	repo := NewUserRepository(&fakeDB{row: errRow(errors.New("connection reset"))})

	_, err := repo.FindByEmail(context.Background(), "a@b.c")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestUniqueViolationBecomesValidationError(t *testing.T) {
	repo := NewUserRepository(&fakeDB{row: errRow(&pgconn.PgError{Code: "23505"})})

	err := repo.Save(context.Background(), &domain.User{Email: "dup@b.c"})
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestUnknownColumnsRejectedBeforeQuery(t *testing.T) {
	db := &fakeDB{}
	table := NewTable(db, userSchema)
	ctx := context.Background()

	_, err := table.FindBy(ctx, "email; DROP TABLE users", "x")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = table.All(ctx, "id", "secret")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = table.Paginate(ctx, PageRequest{OrderBy: "nope"})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = table.Paginate(ctx, PageRequest{Where: []Condition{{Column: "1=1 OR email", Value: "x"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)

	_, err = table.Paginate(ctx, PageRequest{Direction: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidDirection)

	assert.Empty(t, db.calls)
}

func TestPaginateBuildsCountAndPageQueries(t *testing.T) {
	db := &fakeDB{
		row: func(string) pgx.Row {
			return fakeRow{scan: func(dest ...any) error {
				*dest[0].(*int) = 45
				return nil
			}}
		},
		rows: &fakeRows{n: 2, scan: func(i int, dest ...any) error {
			*dest[0].(*string) = []string{"t-1", "t-2"}[i]
			return nil
		}},
	}
	repo := NewTicketRepository(db)

	page, err := repo.ListByUser(context.Background(), "u-1", 2, 20)
	require.NoError(t, err)

	require.Len(t, db.calls, 2)
	assert.Equal(t, "SELECT COUNT(*) FROM tickets WHERE user_id=$1 AND status<>$2", db.calls[0].sql)
	assert.Equal(t,
		"SELECT id, user_id, title, description, status, created_at, updated_at FROM tickets WHERE user_id=$1 AND status<>$2 ORDER BY created_at DESC LIMIT 20 OFFSET 20",
		db.calls[1].sql)
	assert.Equal(t, []any{"u-1", domain.TicketStatusDeleted}, db.calls[1].args)

	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.TotalPages())
	require.Len(t, page.Items, 2)
	assert.Equal(t, "t-2", page.Items[1].ID)
}

func TestAllSelectsOnlyRequestedColumns(t *testing.T) {
	db := &fakeDB{rows: &fakeRows{n: 1, scan: func(_ int, dest ...any) error {
		require.Len(t, dest, 2)
		*dest[0].(*string) = "u-1"
		*dest[1].(*string) = "a@b.c"
		return nil
	}}}
	table := NewTable(db, userSchema)

	users, err := table.All(context.Background(), "id", "email")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@b.c", users[0].Email)
	assert.Equal(t, "SELECT id, email FROM users ORDER BY created_at ASC", db.calls[0].sql)
}

func TestDeleteMissingRow(t *testing.T) {
	repo := NewReplyRepository(&fakeDB{affected: "DELETE 0"})
	assert.ErrorIs(t, repo.Delete(context.Background(), "r-1"), domain.ErrReplyNotFound)

	repo = NewReplyRepository(&fakeDB{affected: "DELETE 1"})
	assert.NoError(t, repo.Delete(context.Background(), "r-1"))
}

func TestNormalizePageClampsBounds(t *testing.T) {
	req := normalizePage(PageRequest{Page: math.MaxInt, PerPage: math.MaxInt})
	assert.Equal(t, maxPage, req.Page)
	assert.Equal(t, maxPerPage, req.PerPage)

	req = normalizePage(PageRequest{Page: -4})
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, defaultPerPage, req.PerPage)
}
