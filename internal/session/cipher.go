package session

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// payloadVersion prefixes every encrypted payload and is authenticated as AAD.
const payloadVersion byte = 0x01

var hkdfInfo = []byte("helpdesk.session.v1")

// ErrCorrupt is returned when a stored payload fails authentication.
var ErrCorrupt = errors.New("session payload corrupt")

// Cipher encrypts payloads at rest before handing them to the wrapped handler.
// Layout: [version:1][nonce:24][ciphertext+tag].
type Cipher struct {
	next Handler
	aead cipher.AEAD
}

// NewCipher derives an XChaCha20-Poly1305 key from secret and wraps next.
func NewCipher(next Handler, secret []byte) (*Cipher, error) {
	if len(secret) < chacha20poly1305.KeySize {
		return nil, fmt.Errorf("session encryption key must be at least %d bytes", chacha20poly1305.KeySize)
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, hkdfInfo), key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create session cipher: %w", err)
	}
	return &Cipher{next: next, aead: aead}, nil
}

func (c *Cipher) Read(ctx context.Context, id string) ([]byte, error) {
	blob, err := c.next.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.open(id, blob)
}

func (c *Cipher) Write(ctx context.Context, id string, data []byte) error {
	blob, err := c.seal(id, data)
	if err != nil {
		return err
	}
	return c.next.Write(ctx, id, blob)
}

func (c *Cipher) Destroy(ctx context.Context, id string) error {
	return c.next.Destroy(ctx, id)
}

func (c *Cipher) GC(ctx context.Context) (int64, error) {
	return c.next.GC(ctx)
}

// seal binds the ciphertext to the session id so payloads cannot be swapped
// between ids in storage.
func (c *Cipher) seal(id string, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	out := make([]byte, 0, 1+len(nonce)+len(plaintext)+c.aead.Overhead())
	out = append(out, payloadVersion)
	out = append(out, nonce...)
	return c.aead.Seal(out, nonce, plaintext, aad(id)), nil
}

func (c *Cipher) open(id string, blob []byte) ([]byte, error) {
	if len(blob) < 1+chacha20poly1305.NonceSizeX+c.aead.Overhead() || blob[0] != payloadVersion {
		return nil, ErrCorrupt
	}
	nonce := blob[1 : 1+chacha20poly1305.NonceSizeX]
	plaintext, err := c.aead.Open(nil, nonce, blob[1+chacha20poly1305.NonceSizeX:], aad(id))
	if err != nil {
		return nil, ErrCorrupt
	}
	return plaintext, nil
}

func aad(id string) []byte {
	out := make([]byte, 0, 1+len(id))
	out = append(out, payloadVersion)
	return append(out, id...)
}
