package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const filePrefix = "sess_"

// FileHandler stores one file per session. The file mtime tracks last access.
type FileHandler struct {
	dir      string
	lifetime time.Duration
	now      func() time.Time
}

// NewFileHandler builds a handler rooted at dir, creating it when missing.
func NewFileHandler(dir string, lifetime time.Duration) (*FileHandler, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileHandler{dir: dir, lifetime: lifetime, now: time.Now}, nil
}

func (h *FileHandler) path(id string) (string, error) {
	if !validID(id) {
		return "", ErrNotFound
	}
	return filepath.Join(h.dir, filePrefix+id), nil
}

func (h *FileHandler) Read(_ context.Context, id string) ([]byte, error) {
	path, err := h.path(id)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("stat session: %w", err)
	}
	if h.expired(info.ModTime()) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return data, nil
}

func (h *FileHandler) Write(_ context.Context, id string, data []byte) error {
	path, err := h.path(id)
	if err != nil {
		return fmt.Errorf("write session: invalid id")
	}
	tmp, err := os.CreateTemp(h.dir, ".tmp-"+filePrefix)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write session: %w", err)
	}
	now := h.now()
	return os.Chtimes(path, now, now)
}

func (h *FileHandler) Destroy(_ context.Context, id string) error {
	path, err := h.path(id)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func (h *FileHandler) GC(ctx context.Context) (int64, error) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	var removed int64
	for _, entry := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), filePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !h.expired(info.ModTime()) {
			continue
		}
		if err := os.Remove(filepath.Join(h.dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

func (h *FileHandler) expired(lastAccess time.Time) bool {
	return h.lifetime > 0 && h.now().Sub(lastAccess) > h.lifetime
}
