package livekit

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalEnsureRoomIsIdempotent(t *testing.T) {
	rooms := NewRoomService("ws://localhost:7880", "devkey", "secret", true)
	ctx := context.Background()

	first, err := rooms.EnsureRoom(ctx, "conv-1", nil)
	require.NoError(t, err)
	second, err := rooms.EnsureRoom(ctx, "conv-1", nil)
	require.NoError(t, err)

	assert.Equal(t, first.SID, second.SID)
	assert.EqualValues(t, 2, first.MaxParticipants)

	require.NoError(t, rooms.CloseRoom(ctx, "conv-1"))
	third, err := rooms.EnsureRoom(ctx, "conv-1", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.SID, third.SID)
}

func TestJoinTokenGrantsRoom(t *testing.T) {
	rooms := NewRoomService("ws://localhost:7880", "devkey", "secret", true)

	token, err := rooms.JoinToken(JoinGrant{Room: "conv-1", Identity: "user-1", Name: "Ada", ValidFor: time.Minute})
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "devkey", claims["iss"])
	assert.Equal(t, "user-1", claims["sub"])
	video, ok := claims["video"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "conv-1", video["room"])
	assert.Equal(t, true, video["roomJoin"])
}

func TestJoinTokenRequiresRoomAndIdentity(t *testing.T) {
	rooms := NewRoomService("", "k", "s", true)
	_, err := rooms.JoinToken(JoinGrant{Room: "conv-1"})
	assert.Error(t, err)
}
