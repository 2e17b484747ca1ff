// Package auth supplies the bearer credential attached to backend requests. Session handling
// itself belongs to the external auth collaborator; this package only reports a missing or
// expired credential as an opaque authorization failure.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Common errors for token sources.
var (
	ErrMissingToken = errors.New("no bearer credential available")
	ErrTokenExpired = errors.New("bearer credential expired")
)

// TokenSource yields the current bearer credential.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource serves one token, checking its exp claim when it is a JWT.
// Opaque (non-JWT) tokens are passed through unchecked.
type StaticTokenSource struct {
	mu    sync.RWMutex
	token string
	now   func() time.Time
}

// NewStaticTokenSource creates a token source for the given credential.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token, now: time.Now}
}

// SetToken swaps the credential, e.g. after the user signs in again.
func (s *StaticTokenSource) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the credential or an error if it is missing or expired.
func (s *StaticTokenSource) Token(_ context.Context) (string, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return "", ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Not a JWT: nothing to check.
		return token, nil
	}

	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(s.now()) {
		return "", fmt.Errorf("%w at %s", ErrTokenExpired, claims.ExpiresAt.Format(time.RFC3339))
	}

	return token, nil
}
