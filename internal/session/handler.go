package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by handlers when no live session has the id.
var ErrNotFound = errors.New("session not found")

// Handler persists opaque session payloads.
type Handler interface {
	Read(ctx context.Context, id string) ([]byte, error)
	Write(ctx context.Context, id string, data []byte) error
	Destroy(ctx context.Context, id string) error
	// GC removes sessions idle for longer than the handler's lifetime and
	// returns how many were removed.
	GC(ctx context.Context) (int64, error)
}
