package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "2h")

	token, expiresAt, err := svc.GenerateAccessToken("clerk-42")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(2*time.Hour).Unix(), expiresAt, 5)

	clerkID, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "clerk-42", clerkID)
}

func TestJWTService_RejectsForeignAndNonAccessTokens(t *testing.T) {
	svc := NewJWTService("secret", "1h")

	other := NewJWTService("another-secret", "1h")
	foreign, _, err := other.GenerateAccessToken("clerk-42")
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(foreign)
	assert.Error(t, err)

	_, refresh, err := svc.JWTAuth().Encode(map[string]interface{}{
		"clerk_id": "clerk-42",
		"type":     "refresh",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", "-1h")

	token, _, err := svc.GenerateAccessToken("clerk-42")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTService_InvalidExpiration(t *testing.T) {
	_, _, err := NewJWTService("secret", "forever").GenerateAccessToken("clerk-42")
	assert.Error(t, err)
}
