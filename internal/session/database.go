package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool used by DatabaseHandler.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DatabaseHandler stores sessions in the sessions table.
type DatabaseHandler struct {
	db       DB
	lifetime time.Duration
	now      func() time.Time
}

// NewDatabaseHandler builds a Postgres-backed handler.
func NewDatabaseHandler(db DB, lifetime time.Duration) *DatabaseHandler {
	return &DatabaseHandler{db: db, lifetime: lifetime, now: time.Now}
}

func (h *DatabaseHandler) Read(ctx context.Context, id string) ([]byte, error) {
	const query = `
        SELECT payload FROM sessions
        WHERE id=$1 AND last_access > $2`

	var payload []byte
	if err := h.db.QueryRow(ctx, query, id, h.now().Add(-h.lifetime)).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	return payload, nil
}

func (h *DatabaseHandler) Write(ctx context.Context, id string, data []byte) error {
	const query = `
        INSERT INTO sessions (id, payload, last_access)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET payload=EXCLUDED.payload, last_access=EXCLUDED.last_access`

	if _, err := h.db.Exec(ctx, query, id, data, h.now()); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (h *DatabaseHandler) Destroy(ctx context.Context, id string) error {
	const query = `DELETE FROM sessions WHERE id=$1`
	if _, err := h.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func (h *DatabaseHandler) GC(ctx context.Context) (int64, error) {
	const query = `DELETE FROM sessions WHERE last_access < $1`
	cmd, err := h.db.Exec(ctx, query, h.now().Add(-h.lifetime))
	if err != nil {
		return 0, fmt.Errorf("gc sessions: %w", err)
	}
	return cmd.RowsAffected(), nil
}
