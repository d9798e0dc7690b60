// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef" // 32 bytes

func newTestService(t *testing.T) *TokenService {
	t.Helper()
	service, err := NewTokenService(testSecret, "kaimono.shop", 24*time.Hour)
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService_RejectsWeakSecrets verifies the startup guard rails.
*/
func TestNewTokenService_RejectsWeakSecrets(t *testing.T) {
	_, err := NewTokenService("short", "kaimono.shop", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(testSecret, "kaimono.shop", 0)
	assert.Error(t, err)
}

/*
TestTokenService_RoundTrip issues a token and parses it back, checking every
claim the codec promises to carry explicitly.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestService(t)
	issuedAt := time.Now().Truncate(time.Second)

	token, err := service.Issue("id-42", "a@x.com", issuedAt)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Parse(token)
	require.NoError(t, err)

	assert.Equal(t, "id-42", claims.IdentityID)
	assert.Equal(t, "id-42", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "kaimono.shop", claims.Issuer)
	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issuedAt.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

/*
TestTokenService_ExpiryBoundary pins the inclusive boundary: a token whose
expiry instant equals the verification clock is already expired, one second
earlier it is still valid.
*/
func TestTokenService_ExpiryBoundary(t *testing.T) {
	service := newTestService(t)

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := issuedAt.Add(24 * time.Hour)

	token, err := service.Issue("id-42", "a@x.com", issuedAt)
	require.NoError(t, err)

	// One second before expiry: valid.
	service.now = func() time.Time { return expiresAt.Add(-time.Second) }
	_, err = service.Parse(token)
	assert.NoError(t, err)

	// Exactly at expiry: expired.
	service.now = func() time.Time { return expiresAt }
	_, err = service.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// After expiry: expired.
	service.now = func() time.Time { return expiresAt.Add(time.Second) }
	_, err = service.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

/*
TestTokenService_Malformed covers structurally broken inputs.
*/
func TestTokenService_Malformed(t *testing.T) {
	service := newTestService(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two_segments", "aaaa.bbbb"},
		{"binary_noise", "\x00\x01\x02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Parse(tt.token)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

/*
TestTokenService_ForeignSignature verifies a token signed under a different
secret is rejected as a signature failure, not accepted and not "expired".
*/
func TestTokenService_ForeignSignature(t *testing.T) {
	service := newTestService(t)

	foreign, err := NewTokenService(strings.Repeat("x", 32), "kaimono.shop", 24*time.Hour)
	require.NoError(t, err)

	token, err := foreign.Issue("id-42", "a@x.com", time.Now())
	require.NoError(t, err)

	_, err = service.Parse(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

/*
TestTokenService_Tampering flips bytes in the payload and signature segments
of a valid token; no mutation may ever parse successfully.
*/
func TestTokenService_Tampering(t *testing.T) {
	service := newTestService(t)

	token, err := service.Issue("id-42", "a@x.com", time.Now())
	require.NoError(t, err)

	segments := strings.Split(token, ".")
	require.Len(t, segments, 3)

	for i := 0; i < len(token); i++ {
		mutated := []byte(token)
		if mutated[i] == '.' {
			continue
		}
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}

		_, parseErr := service.Parse(string(mutated))
		assert.Error(t, parseErr, "mutated byte %d must not verify", i)
	}
}

/*
TestTokenService_WrongIssuer verifies tokens from a different issuer are
treated as malformed: this process never issued them.
*/
func TestTokenService_WrongIssuer(t *testing.T) {
	service := newTestService(t)

	other, err := NewTokenService(testSecret, "other.app", 24*time.Hour)
	require.NoError(t, err)

	token, err := other.Issue("id-42", "a@x.com", time.Now())
	require.NoError(t, err)

	_, err = service.Parse(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
