// Package jwtclaims inspects bearer tokens without verifying them. The
// client holds no key material, so claims are advisory: they drive
// proactive renewal and display, never authorization. The backend's 401
// remains the source of truth for token validity.
package jwtclaims

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed indicates the token could not be decoded at all.
var ErrMalformed = errors.New("malformed token")

// Claims is the subset of access-token claims the client cares about.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// Peek decodes token claims without signature verification.
func Peek(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMalformed
	}
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, ErrMalformed
	}
	return claims, nil
}

// ExpiresWithin reports whether the token expires before now+window.
// Tokens without an exp claim never report as expiring; the 401 path
// handles them.
func (c *Claims) ExpiresWithin(now time.Time, window time.Duration) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.Time.After(now.Add(window))
}
