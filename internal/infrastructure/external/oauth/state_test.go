package oauth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideby/teachconnect/internal/infrastructure/cache"
)

func TestStateManagerOneTimeUse(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	sm := NewStateManager(store)

	state, err := sm.GenerateState(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, state)

	ok, err := sm.ValidateState(ctx, state)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sm.ValidateState(ctx, state)
	require.NoError(t, err)
	assert.False(t, ok, "a state can only be redeemed once")
}

func TestStateManagerRejectsUnknown(t *testing.T) {
	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	sm := NewStateManager(store)

	ok, err := sm.ValidateState(context.Background(), "forged")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = sm.ValidateState(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}
