package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestNewSessionHasValidID(t *testing.T) {
	sess, err := New()
	require.NoError(t, err)
	assert.True(t, validID(sess.ID()))
	assert.False(t, sess.Dirty())
	assert.False(t, sess.Persisted())
}

func TestSetGetDelete(t *testing.T) {
	sess, err := New()
	require.NoError(t, err)

	sess.Set("k", "v")
	assert.True(t, sess.Dirty())
	v, ok := sess.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	sess.Delete("k")
	assert.False(t, sess.Has("k"))
}

func TestRegenerateKeepsValuesAndRecordsOldID(t *testing.T) {
	sess, err := New()
	require.NoError(t, err)
	sess.Set("k", "v")
	old := sess.ID()

	require.NoError(t, sess.Regenerate())

	assert.NotEqual(t, old, sess.ID())
	assert.Equal(t, []string{old}, sess.superseded)
	v, _ := sess.Get("k")
	assert.Equal(t, "v", v)
}

func TestAuthAccessors(t *testing.T) {
	sess, err := New()
	require.NoError(t, err)
	assert.False(t, IsLoggedIn(sess))

	SetAuth(sess, "u-1", domain.UserTypeAdmin)
	assert.True(t, IsLoggedIn(sess))
	assert.Equal(t, "u-1", UserID(sess))
	assert.Equal(t, domain.UserTypeAdmin, UserType(sess))

	ClearAuth(sess)
	assert.False(t, IsLoggedIn(sess))
	assert.Equal(t, domain.UserType(""), UserType(sess))
	assert.Equal(t, "", UserID(nil))
}

func TestValidID(t *testing.T) {
	assert.False(t, validID(""))
	assert.False(t, validID("../../etc/passwd"))
	assert.False(t, validID("short"))
}

func TestCodecRoundTrip(t *testing.T) {
	in := map[string]string{"a": "1", "csrf_token": "abc"}
	data, err := encodeValues(in)
	require.NoError(t, err)

	out, err := decodeValues(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	empty, err := decodeValues(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
