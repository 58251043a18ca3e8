package session

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// CookieSigner signs session ids into HS256 tokens stored in the session cookie.
type CookieSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCookieSigner builds a signer whose tokens expire after ttl.
func NewCookieSigner(secret string, ttl time.Duration) *CookieSigner {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &CookieSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns the cookie value for a session id.
func (s *CookieSigner) Sign(sessionID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Verify returns the session id carried by a cookie value.
func (s *CookieSigner) Verify(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if !parsed.Valid || !validID(claims.ID) {
		return "", errors.New("invalid session cookie")
	}
	return claims.ID, nil
}
