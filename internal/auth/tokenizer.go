package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/account-service/pkg/util"
)

// Tokenizer issues and verifies signed session tokens. Both operations are
// pure with respect to storage: verification needs only the secret key and
// the wall clock.
type Tokenizer struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenizer builds a tokenizer with the given lifetime. An empty secret
// selects a random per-process key, so restarting the process invalidates
// every outstanding token.
func NewTokenizer(lifetime time.Duration, secret string) (*Tokenizer, error) {
	key := []byte(secret)
	if secret == "" {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, util.NewInternalError(fmt.Errorf("generate ephemeral key: %w", err))
		}
	}
	return &Tokenizer{secret: key, lifetime: lifetime}, nil
}

// Generate mints a new HS256 token whose issuance time is now and whose
// expiry is now plus the configured lifetime. The random jti keeps tokens
// issued within the same second distinct.
func (t *Tokenizer) Generate() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.lifetime)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", util.NewInternalError(fmt.Errorf("sign token: %w", err))
	}
	return signed, nil
}

// Verify checks signature and expiry of a presented token. Malformed,
// forged, and expired tokens all fail with the same typed error.
func (t *Tokenizer) Verify(token string) error {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return util.NewUnauthenticated("invalid token")
	}
	return nil
}
