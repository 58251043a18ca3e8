// Package session implements server-side sessions with pluggable storage.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// idBytes is the entropy of a session id before encoding.
const idBytes = 32

// Session is the request-scoped view of a stored session.
type Session struct {
	id         string
	values     map[string]string
	superseded []string
	dirty      bool
	loaded     bool
	destroyed  bool
}

// New returns an empty session with a fresh id.
func New() (*Session, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	return &Session{id: id, values: map[string]string{}}, nil
}

func restore(id string, values map[string]string) *Session {
	if values == nil {
		values = map[string]string{}
	}
	return &Session{id: id, values: values, loaded: true}
}

// ID returns the current session id.
func (s *Session) ID() string { return s.id }

// Get returns the value stored under key.
func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is set.
func (s *Session) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Set stores value under key.
func (s *Session) Set(key, value string) {
	if cur, ok := s.values[key]; ok && cur == value {
		return
	}
	s.values[key] = value
	s.dirty = true
}

// Delete removes key.
func (s *Session) Delete(keys ...string) {
	for _, key := range keys {
		if _, ok := s.values[key]; ok {
			delete(s.values, key)
			s.dirty = true
		}
	}
}

// Clear removes every value.
func (s *Session) Clear() {
	if len(s.values) == 0 {
		return
	}
	s.values = map[string]string{}
	s.dirty = true
}

// Regenerate assigns a new id; the previous id is destroyed on save.
func (s *Session) Regenerate() error {
	id, err := newID()
	if err != nil {
		return err
	}
	s.superseded = append(s.superseded, s.id)
	s.id = id
	s.dirty = true
	return nil
}

// Destroy marks the session for removal from storage.
func (s *Session) Destroy() {
	s.values = map[string]string{}
	s.destroyed = true
}

// Destroyed reports whether Destroy was called.
func (s *Session) Destroyed() bool { return s.destroyed }

// Dirty reports whether the session changed since it was loaded.
func (s *Session) Dirty() bool { return s.dirty }

// Persisted reports whether the session exists, or will exist after save, in storage.
func (s *Session) Persisted() bool {
	return !s.destroyed && (s.loaded || s.dirty)
}

func (s *Session) snapshot() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func newID() (string, error) {
	buf := make([]byte, idBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// validID reports whether id has the shape produced by newID.
func validID(id string) bool {
	if len(id) != base64.RawURLEncoding.EncodedLen(idBytes) {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
