package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionDB struct {
	execSQL  string
	execArgs []any
	execTag  pgconn.CommandTag
	execErr  error

	querySQL  string
	queryArgs []any
	row       fakeSessionRow
}

func (db *fakeSessionDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.execSQL, db.execArgs = sql, args
	return db.execTag, db.execErr
}

func (db *fakeSessionDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.querySQL, db.queryArgs = sql, args
	return db.row
}

type fakeSessionRow struct {
	payload []byte
	err     error
}

func (r fakeSessionRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.payload
	return nil
}

func newTestDatabaseHandler(db *fakeSessionDB, now time.Time) *DatabaseHandler {
	h := NewDatabaseHandler(db, time.Hour)
	h.now = func() time.Time { return now }
	return h
}

func TestDatabaseHandlerReadFiltersByLifetime(t *testing.T) {
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	db := &fakeSessionDB{row: fakeSessionRow{payload: []byte("data")}}
	h := newTestDatabaseHandler(db, now)

	got, err := h.Read(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)
	assert.Contains(t, db.querySQL, "last_access > $2")
	assert.Equal(t, []any{"abc", now.Add(-time.Hour)}, db.queryArgs)
}

func TestDatabaseHandlerReadMissingRow(t *testing.T) {
	h := newTestDatabaseHandler(&fakeSessionDB{row: fakeSessionRow{err: pgx.ErrNoRows}}, time.Now())
	_, err := h.Read(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDatabaseHandlerReadWrapsDriverErrors(t *testing.T) {
	boom := errors.New("connection reset")
	h := newTestDatabaseHandler(&fakeSessionDB{row: fakeSessionRow{err: boom}}, time.Now())
	_, err := h.Read(context.Background(), "abc")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDatabaseHandlerWriteUpserts(t *testing.T) {
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	db := &fakeSessionDB{}
	h := newTestDatabaseHandler(db, now)

	require.NoError(t, h.Write(context.Background(), "abc", []byte("data")))
	assert.Contains(t, db.execSQL, "ON CONFLICT (id) DO UPDATE")
	assert.Equal(t, []any{"abc", []byte("data"), now}, db.execArgs)
}

func TestDatabaseHandlerDestroy(t *testing.T) {
	db := &fakeSessionDB{}
	h := newTestDatabaseHandler(db, time.Now())

	require.NoError(t, h.Destroy(context.Background(), "abc"))
	assert.Contains(t, db.execSQL, "DELETE FROM sessions WHERE id=$1")
	assert.Equal(t, []any{"abc"}, db.execArgs)
}

func TestDatabaseHandlerGCReportsDeletedRows(t *testing.T) {
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	db := &fakeSessionDB{execTag: pgconn.NewCommandTag("DELETE 3")}
	h := newTestDatabaseHandler(db, now)

	n, err := h.GC(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Contains(t, db.execSQL, "last_access < $1")
	assert.Equal(t, []any{now.Add(-time.Hour)}, db.execArgs)
}

func TestDatabaseHandlerGCError(t *testing.T) {
	boom := errors.New("disk full")
	h := newTestDatabaseHandler(&fakeSessionDB{execErr: boom}, time.Now())
	_, err := h.GC(context.Background())
	assert.ErrorIs(t, err, boom)
}
