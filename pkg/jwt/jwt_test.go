package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("a-secret", "r-secret", time.Minute, time.Hour)
	userID, sessionID := uuid.New(), uuid.New()

	token, err := m.GenerateAccessToken(userID, sessionID, "ada@school.test", "teacher")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, "ada@school.test", claims.Email)
	assert.Equal(t, "teacher", claims.Role)
}

func TestExpiredAccessToken(t *testing.T) {
	m := NewManager("a-secret", "r-secret", -time.Minute, time.Hour)

	token, err := m.GenerateAccessToken(uuid.New(), uuid.New(), "x@y.z", "teacher")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := NewManager("a-secret", "r-secret", time.Minute, time.Hour)

	refresh, err := m.GenerateRefreshToken(uuid.New(), uuid.New())
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := NewManager("a-secret", "r-secret", time.Minute, time.Hour)
	userID, sessionID := uuid.New(), uuid.New()

	refresh, err := m.GenerateRefreshToken(userID, sessionID)
	require.NoError(t, err)

	gotUser, gotSession, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, sessionID, gotSession)

	again, err := m.GenerateRefreshToken(userID, sessionID)
	require.NoError(t, err)
	assert.NotEqual(t, refresh, again, "each refresh token carries a unique id")
}

func TestTokenFromOtherIssuerRejected(t *testing.T) {
	m := NewManager("a-secret", "r-secret", time.Minute, time.Hour)
	other := NewManager("a-secret", "r-secret", time.Minute, time.Hour)
	other.issuer = "someone-else"

	token, err := other.GenerateAccessToken(uuid.New(), uuid.New(), "x@y.z", "teacher")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalid)
}
