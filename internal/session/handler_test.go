package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustID(t *testing.T) string {
	t.Helper()
	id, err := newID()
	require.NoError(t, err)
	return id
}

func TestMemoryHandlerExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewMemoryHandler(time.Hour)
	h.now = func() time.Time { return now }

	id := mustID(t)
	require.NoError(t, h.Write(ctx, id, []byte("payload")))

	data, err := h.Read(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	now = now.Add(2 * time.Hour)
	_, err = h.Read(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := h.GC(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
	assert.Equal(t, 0, h.Len())
}

func TestMemoryHandlerDestroy(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryHandler(time.Hour)
	id := mustID(t)
	require.NoError(t, h.Write(ctx, id, []byte("x")))
	require.NoError(t, h.Destroy(ctx, id))
	_, err := h.Read(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileHandlerReadWriteGC(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	h, err := NewFileHandler(dir, time.Hour)
	require.NoError(t, err)

	id := mustID(t)
	require.NoError(t, h.Write(ctx, id, []byte("payload")))

	data, err := h.Read(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	stale := mustID(t)
	require.NoError(t, h.Write(ctx, stale, []byte("old")))
	old := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, filePrefix+stale), old, old))

	_, err = h.Read(ctx, stale)
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := h.GC(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = h.Read(ctx, id)
	assert.NoError(t, err)

	require.NoError(t, h.Destroy(ctx, id))
	_, err = h.Read(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileHandlerRejectsTraversal(t *testing.T) {
	h, err := NewFileHandler(t.TempDir(), time.Hour)
	require.NoError(t, err)

	_, err = h.Read(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, h.Write(context.Background(), "../escape", []byte("x")))
}

func TestCipherRoundTripAndTamper(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryHandler(time.Hour)
	c, err := NewCipher(mem, []byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	id := mustID(t)
	require.NoError(t, c.Write(ctx, id, []byte("secret payload")))

	raw, err := mem.Read(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret payload")

	plain, err := c.Read(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret payload"), plain)

	raw[len(raw)-1] ^= 0xff
	require.NoError(t, mem.Write(ctx, id, raw))
	_, err = c.Read(ctx, id)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestCipherBindsPayloadToID(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryHandler(time.Hour)
	c, err := NewCipher(mem, []byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	a, b := mustID(t), mustID(t)
	require.NoError(t, c.Write(ctx, a, []byte("alice")))
	raw, err := mem.Read(ctx, a)
	require.NoError(t, err)
	require.NoError(t, mem.Write(ctx, b, raw))

	_, err = c.Read(ctx, b)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestCipherRejectsShortKey(t *testing.T) {
	_, err := NewCipher(NewMemoryHandler(time.Hour), []byte("short"))
	assert.Error(t, err)
}
