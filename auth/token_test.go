package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := NewTokenService("")

	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestIssueAndVerify(t *testing.T) {
	s, err := NewTokenService(testSecret)
	require.NoError(t, err)

	token, err := s.Issue("user-1")
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.WithinDuration(t, time.Now().Add(TokenLifetime), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssue_Deterministic(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s, err := NewTokenService(testSecret, WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	a, err := s.Issue("user-1")
	require.NoError(t, err)
	b, err := s.Issue("user-1")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestVerify_Expired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	s, err := NewTokenService(testSecret, WithClock(func() time.Time { return clock() }))
	require.NoError(t, err)

	token, err := s.Issue("user-1")
	require.NoError(t, err)

	// Still valid right before the lifetime elapses.
	clock = func() time.Time { return now.Add(TokenLifetime - time.Minute) }
	_, err = s.Verify(token)
	require.NoError(t, err)

	clock = func() time.Time { return now.Add(TokenLifetime + time.Minute) }
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_Tampered(t *testing.T) {
	s, err := NewTokenService(testSecret)
	require.NoError(t, err)
	token, err := s.Issue("user-1")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	flip := func(seg string) string {
		b := []byte(seg)
		i := len(b) / 2
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		return string(b)
	}

	tests := map[string]string{
		"header":    flip(parts[0]) + "." + parts[1] + "." + parts[2],
		"payload":   parts[0] + "." + flip(parts[1]) + "." + parts[2],
		"signature": parts[0] + "." + parts[1] + "." + flip(parts[2]),
		"truncated": parts[0] + "." + parts[1],
		"garbage":   "not-a-token",
		"empty":     "",
	}

	for name, tampered := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(tampered)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer, err := NewTokenService("secret-a")
	require.NoError(t, err)
	verifier, err := NewTokenService("secret-b")
	require.NoError(t, err)

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	s, err := NewTokenService(testSecret)
	require.NoError(t, err)

	claims := Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_MissingUserID(t *testing.T) {
	s, err := NewTokenService(testSecret)
	require.NoError(t, err)

	token, err := s.Issue("")
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
