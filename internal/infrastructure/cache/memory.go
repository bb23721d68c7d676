package cache

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// MemoryStore is a simple in-memory key-value store with expiration
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*memoryItem
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

type memoryItem struct {
	value      []byte
	expireTime time.Time
}

func (i *memoryItem) expired(now time.Time) bool {
	return !i.expireTime.IsZero() && now.After(i.expireTime)
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]*memoryItem),
		now:   time.Now,
		stop:  make(chan struct{}),
	}

	// Start cleanup goroutine to remove expired items
	go store.cleanupExpired(5 * time.Minute)

	return store
}

func (ms *MemoryStore) newItem(value []byte, ttl time.Duration) *memoryItem {
	item := &memoryItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expireTime = ms.now().Add(ttl)
	}
	return item
}

// Get retrieves a value by key
func (ms *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[key]
	if !exists || item.expired(ms.now()) {
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), item.value...), nil
}

// Set stores a key-value pair with expiration
func (ms *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[key] = ms.newItem(value, ttl)
	return nil
}

// SetNX stores the pair only when the key is absent or expired
func (ms *MemoryStore) SetNX(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if item, exists := ms.items[key]; exists && !item.expired(ms.now()) {
		return false, nil
	}
	ms.items[key] = ms.newItem(value, ttl)
	return true, nil
}

// Take returns and removes a key (one-time read)
func (ms *MemoryStore) Take(_ context.Context, key string) ([]byte, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item, exists := ms.items[key]
	if !exists {
		return nil, ErrCacheMiss
	}
	delete(ms.items, key)
	if item.expired(ms.now()) {
		return nil, ErrCacheMiss
	}
	return item.value, nil
}

// Delete removes keys
func (ms *MemoryStore) Delete(_ context.Context, keys ...string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, key := range keys {
		delete(ms.items, key)
	}
	return nil
}

// DeleteIfEqual removes key when it is live and holds value
func (ms *MemoryStore) DeleteIfEqual(_ context.Context, key string, value []byte) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item, exists := ms.items[key]
	if !exists || item.expired(ms.now()) || !bytes.Equal(item.value, value) {
		return false, nil
	}
	delete(ms.items, key)
	return true, nil
}

// Close stops the cleanup goroutine
func (ms *MemoryStore) Close() error {
	ms.once.Do(func() { close(ms.stop) })
	return nil
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.mu.Lock()
			now := ms.now()
			for key, item := range ms.items {
				if item.expired(now) {
					delete(ms.items, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}
