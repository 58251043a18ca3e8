package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data       []byte
	lastAccess time.Time
}

// MemoryHandler keeps sessions in process memory. Sessions are lost on restart.
type MemoryHandler struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	lifetime time.Duration
	now      func() time.Time
}

// NewMemoryHandler builds an in-memory handler.
func NewMemoryHandler(lifetime time.Duration) *MemoryHandler {
	return &MemoryHandler{
		entries:  make(map[string]memoryEntry),
		lifetime: lifetime,
		now:      time.Now,
	}
}

func (h *MemoryHandler) Read(_ context.Context, id string) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry, ok := h.entries[id]
	if !ok || h.expired(entry) {
		return nil, ErrNotFound
	}
	out := make([]byte, len(entry.data))
	copy(out, entry.data)
	return out, nil
}

func (h *MemoryHandler) Write(_ context.Context, id string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[id] = memoryEntry{data: buf, lastAccess: h.now()}
	return nil
}

func (h *MemoryHandler) Destroy(_ context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.entries, id)
	return nil
}

func (h *MemoryHandler) GC(_ context.Context) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var removed int64
	for id, entry := range h.entries {
		if h.expired(entry) {
			delete(h.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions, live or expired.
func (h *MemoryHandler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *MemoryHandler) expired(entry memoryEntry) bool {
	return h.lifetime > 0 && h.now().Sub(entry.lastAccess) > h.lifetime
}
