package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/spec-kit/helpdesk/internal/session"
)

const (
	// FieldName is the form/JSON field carrying the token.
	FieldName = "csrf_token"
	// HeaderName is accepted when the body has no token.
	HeaderName = "X-CSRF-Token"

	tokenKey   = "csrf_token"
	expiresKey = "csrf_expires"
	tokenBytes = 32
)

// ErrInvalidToken is returned when a submitted token is missing, stale or wrong.
var ErrInvalidToken = errors.New("invalid csrf token")

// Guard issues and checks session-bound CSRF tokens.
type Guard struct {
	ttl time.Duration
	now func() time.Time
}

// NewGuard builds a Guard whose tokens live for ttl.
func NewGuard(ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Guard{ttl: ttl, now: time.Now}
}

// Token returns the session's current token, minting a new one when none
// is stored or the stored one has expired.
func (g *Guard) Token(sess *session.Session) (string, error) {
	if token, ok := g.current(sess); ok {
		return token, nil
	}
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	sess.Set(tokenKey, token)
	sess.Set(expiresKey, strconv.FormatInt(g.now().Add(g.ttl).UnixNano(), 10))
	return token, nil
}

// Validate compares submitted against the session's token.
func (g *Guard) Validate(sess *session.Session, submitted string) error {
	if submitted == "" {
		return ErrInvalidToken
	}
	token, ok := g.current(sess)
	if !ok {
		return ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
		return ErrInvalidToken
	}
	return nil
}

func (g *Guard) current(sess *session.Session) (string, bool) {
	if sess == nil {
		return "", false
	}
	token, ok := sess.Get(tokenKey)
	if !ok || token == "" {
		return "", false
	}
	raw, _ := sess.Get(expiresKey)
	expires, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || !g.now().Before(time.Unix(0, expires)) {
		return "", false
	}
	return token, true
}
