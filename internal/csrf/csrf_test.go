package csrf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/session"
)

func newGuardAt(now *time.Time) *Guard {
	g := NewGuard(time.Hour)
	g.now = func() time.Time { return *now }
	return g
}

func TestTokenIsStableWithinTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := newGuardAt(&now)
	sess, err := session.New()
	require.NoError(t, err)

	first, err := g.Token(sess)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	now = now.Add(30 * time.Minute)
	second, err := g.Token(sess)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NoError(t, g.Validate(sess, first))
}

func TestValidateRejectsMismatch(t *testing.T) {
	now := time.Now()
	g := newGuardAt(&now)
	sess, err := session.New()
	require.NoError(t, err)

	_, err = g.Token(sess)
	require.NoError(t, err)

	assert.ErrorIs(t, g.Validate(sess, "nope"), ErrInvalidToken)
	assert.ErrorIs(t, g.Validate(sess, ""), ErrInvalidToken)
}

func TestValidateRejectsWithoutStoredToken(t *testing.T) {
	g := NewGuard(time.Hour)
	sess, err := session.New()
	require.NoError(t, err)

	assert.ErrorIs(t, g.Validate(sess, "anything"), ErrInvalidToken)
	assert.ErrorIs(t, g.Validate(nil, "anything"), ErrInvalidToken)
}

func TestTokenExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := newGuardAt(&now)
	sess, err := session.New()
	require.NoError(t, err)

	token, err := g.Token(sess)
	require.NoError(t, err)

	now = now.Add(time.Hour)
	assert.ErrorIs(t, g.Validate(sess, token), ErrInvalidToken)

	fresh, err := g.Token(sess)
	require.NoError(t, err)
	assert.NotEqual(t, token, fresh)
	assert.NoError(t, g.Validate(sess, fresh))
}
