// Copyright (c) 2026 Veranda Systems. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verandahq/veranda/internal/platform/sec"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(
		"access-secret-for-tests",
		"refresh-secret-for-tests",
		15*time.Minute,
		7*24*time.Hour,
		"veranda.test",
	)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_Secrets rejects empty or identical secrets.
*/
func TestTokenService_Secrets(t *testing.T) {
	_, err := sec.NewTokenService("", "refresh", time.Minute, time.Hour, "veranda.test")
	assert.Error(t, err)

	_, err = sec.NewTokenService("same", "same", time.Minute, time.Hour, "veranda.test")
	assert.Error(t, err)
}

/*
TestTokenService_AccessRoundTrip signs an access token and verifies its claims.
*/
func TestTokenService_AccessRoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "a@b.com", "ADMIN", "")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Empty(t, claims.CondominiumID)
}

/*
TestTokenService_CondominiumClaim ensures tenant selection is baked into the payload.
*/
func TestTokenService_CondominiumClaim(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "a@b.com", "ADMIN", "condo-9")
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "condo-9", claims.CondominiumID)
}

/*
TestTokenService_DistinctSecrets proves a refresh token never validates as an
access token and vice versa.
*/
func TestTokenService_DistinctSecrets(t *testing.T) {
	service := newTokenService(t)

	refreshToken, err := service.GenerateRefreshToken("user-1", "a@b.com", "USER", "")
	require.NoError(t, err)

	// A refresh token must fail access verification...
	_, err = service.VerifyToken(refreshToken)
	assert.Error(t, err)

	// ...but pass refresh verification.
	claims, err := service.VerifyRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

/*
TestTokenService_Expiry rejects a token past its TTL.
*/
func TestTokenService_Expiry(t *testing.T) {
	service, err := sec.NewTokenService(
		"access-secret-for-tests",
		"refresh-secret-for-tests",
		-1*time.Minute, // already expired at issue time
		7*24*time.Hour,
		"veranda.test",
	)
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("user-1", "a@b.com", "USER", "")
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}
