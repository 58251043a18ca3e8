package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Manager loads and persists sessions through a Handler.
type Manager struct {
	handler  Handler
	signer   *CookieSigner
	lifetime time.Duration
	logger   *zap.Logger
}

// NewManager builds a Manager.
func NewManager(handler Handler, signer *CookieSigner, lifetime time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{handler: handler, signer: signer, lifetime: lifetime, logger: logger}
}

// Lifetime returns the idle lifetime of a session.
func (m *Manager) Lifetime() time.Duration { return m.lifetime }

// Handler returns the underlying storage handler.
func (m *Manager) Handler() Handler { return m.handler }

// Start resumes the session named by cookie, or begins a new one when the
// cookie is missing, forged, expired or unreadable.
func (m *Manager) Start(ctx context.Context, cookie string) (*Session, error) {
	if cookie != "" {
		sess, err := m.resume(ctx, cookie)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrCorrupt) && !errors.Is(err, errBadCookie) {
			return nil, err
		}
	}
	return New()
}

var errBadCookie = errors.New("bad session cookie")

func (m *Manager) resume(ctx context.Context, cookie string) (*Session, error) {
	id, err := m.signer.Verify(cookie)
	if err != nil {
		return nil, errBadCookie
	}
	data, err := m.handler.Read(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			m.logger.Warn("discarding unreadable session", zap.Error(err))
		}
		return nil, err
	}
	values, err := decodeValues(data)
	if err != nil {
		m.logger.Warn("discarding undecodable session", zap.Error(err))
		return nil, ErrCorrupt
	}
	return restore(id, values), nil
}

// Save persists the session and destroys ids it replaced.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	for _, old := range sess.superseded {
		if err := m.handler.Destroy(ctx, old); err != nil {
			return err
		}
	}
	sess.superseded = nil

	if sess.destroyed {
		if sess.loaded {
			return m.handler.Destroy(ctx, sess.id)
		}
		return nil
	}
	if !sess.Persisted() {
		return nil
	}
	data, err := encodeValues(sess.snapshot())
	if err != nil {
		return err
	}
	if err := m.handler.Write(ctx, sess.id, data); err != nil {
		return err
	}
	sess.loaded = true
	sess.dirty = false
	return nil
}

// CookieValue signs the session id for the client cookie.
func (m *Manager) CookieValue(sess *Session) (string, time.Time, error) {
	return m.signer.Sign(sess.id)
}
