package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/sideby/teachconnect/internal/infrastructure/cache"
)

// StateManager manages OAuth state tokens for CSRF protection
type StateManager struct {
	store      cache.Store
	expiration time.Duration
}

// NewStateManager creates a new state manager
func NewStateManager(store cache.Store) *StateManager {
	return &StateManager{
		store:      store,
		expiration: 10 * time.Minute,
	}
}

// GenerateState generates a random state token and stores it
func (sm *StateManager) GenerateState(ctx context.Context) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(b)

	if err := sm.store.Set(ctx, stateKey(state), []byte("valid"), sm.expiration); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return state, nil
}

// ValidateState consumes a state token (one-time use)
func (sm *StateManager) ValidateState(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	value, err := sm.store.Take(ctx, stateKey(state))
	if errors.Is(err, cache.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return string(value) == "valid", nil
}

func stateKey(state string) string {
	return fmt.Sprintf("oauth:state:%s", state)
}
