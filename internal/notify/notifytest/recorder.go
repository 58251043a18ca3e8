// Package notifytest provides a recording mailer for tests.
package notifytest

import (
	"context"
	"sync"

	"github.com/spec-kit/helpdesk/internal/notify"
)

// Recorder is a notify.Mailer that keeps every message it is given.
type Recorder struct {
	mu   sync.Mutex
	sent []notify.Message
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Send(ctx context.Context, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (r *Recorder) Sent() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.sent...)
}
