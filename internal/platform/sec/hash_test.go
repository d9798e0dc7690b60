// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestHashPassword_Verify covers the hash/verify round trip and salt behavior.
*/
func TestHashPassword_Verify(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The hash is self-describing bcrypt output, never the plaintext.
	assert.True(t, strings.HasPrefix(hash, "$2"))
	assert.NotContains(t, hash, "secret1")

	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

/*
TestHashPassword_Salted verifies two hashes of the same password differ.
*/
func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("secret1")
	require.NoError(t, err)

	second, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestCheckPasswordHash_MalformedHash verifies corrupted stored hashes simply
do not verify — no panic, no error escapes.
*/
func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"garbage", "not-a-bcrypt-hash"},
		{"truncated", "$2a$10$abc"},
		{"wrong_prefix", "$9z$10$aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, CheckPasswordHash("secret1", tt.hash))
			})
		})
	}
}
