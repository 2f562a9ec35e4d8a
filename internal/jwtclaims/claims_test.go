package jwtclaims

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestPeek(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	raw := signed(t, Claims{
		Role: "manager",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	claims, err := Peek(raw)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if claims.Subject != "42" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if claims.Role != "manager" {
		t.Errorf("role = %q", claims.Role)
	}
	if !claims.ExpiresAt.Time.Equal(exp) {
		t.Errorf("exp = %v, want %v", claims.ExpiresAt.Time, exp)
	}
}

func TestPeekMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "not-a-jwt", "a.b"} {
		if _, err := Peek(raw); err == nil {
			t.Errorf("Peek(%q) succeeded, want error", raw)
		}
	}
}

func TestExpiresWithin(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cases := []struct {
		name   string
		exp    *jwt.NumericDate
		window time.Duration
		want   bool
	}{
		{"expiring soon", jwt.NewNumericDate(now.Add(10 * time.Second)), 30 * time.Second, true},
		{"already expired", jwt.NewNumericDate(now.Add(-time.Minute)), 30 * time.Second, true},
		{"fresh", jwt.NewNumericDate(now.Add(time.Hour)), 30 * time.Second, false},
		{"no exp claim", nil, 30 * time.Second, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: tc.exp}}
			if got := c.ExpiresWithin(now, tc.window); got != tc.want {
				t.Errorf("ExpiresWithin = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExpiresWithinNilClaims(t *testing.T) {
	t.Parallel()

	var c *Claims
	if c.ExpiresWithin(time.Now(), time.Minute) {
		t.Error("nil claims should not report expiring")
	}
}
