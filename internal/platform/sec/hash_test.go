// Copyright (c) 2026 Veranda Systems. All rights reserved.

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verandahq/veranda/internal/platform/sec"
)

/*
TestHashPassword verifies a hash round-trip and that plaintext is never stored.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("Secret123!")
	require.NoError(t, err)

	assert.NotEqual(t, "Secret123!", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.True(t, sec.CheckPasswordHash("Secret123!", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
}

/*
TestHashToken verifies token hashing works on inputs far beyond bcrypt's
72-byte limit, as signed JWTs always are.
*/
func TestHashToken(t *testing.T) {
	longToken := strings.Repeat("eyJhbGciOiJIUzI1NiJ9.", 20)

	hash, err := sec.HashToken(longToken)
	require.NoError(t, err)

	assert.True(t, sec.CheckTokenHash(longToken, hash))
	assert.False(t, sec.CheckTokenHash(longToken+"x", hash))
}
