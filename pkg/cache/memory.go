package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value    []byte
	expireAt time.Time
	access   time.Time
}

func (m *memoryItem) expired() bool {
	return !m.expireAt.IsZero() && time.Now().After(m.expireAt)
}

// MemoryCache implements BytesCache using an in-memory map with LRU eviction.
type MemoryCache struct {
	mu            sync.Mutex
	data          map[string]*memoryItem
	maxSize       int
	cleanupTicker *time.Ticker
	done          chan struct{}
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		data:          make(map[string]*memoryItem),
		maxSize:       cfg.MaxSize,
		cleanupTicker: time.NewTicker(cfg.CleanupInterval),
		done:          make(chan struct{}),
	}

	go mc.cleanupExpired()
	return mc
}

func (mc *MemoryCache) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	item, ok := mc.data[key]
	if !ok {
		return nil, false, nil
	}
	if item.expired() {
		delete(mc.data, key)
		return nil, false, nil
	}

	item.access = time.Now()
	return item.value, true, nil
}

func (mc *MemoryCache) SetBytes(_ context.Context, key string, value []byte, ttl time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.data) >= mc.maxSize {
		mc.evictLRU()
	}

	var expireAt time.Time
	if ttl > 0 {
		expireAt = time.Now().Add(ttl)
	}

	mc.data[key] = &memoryItem{
		value:    value,
		expireAt: expireAt,
		access:   time.Now(),
	}
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for _, key := range keys {
		delete(mc.data, key)
	}
	return nil
}

func (mc *MemoryCache) evictLRU() {
	var oldestKey string
	oldest := time.Now()

	for key, item := range mc.data {
		if item.access.Before(oldest) {
			oldest = item.access
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(mc.data, oldestKey)
	}
}

func (mc *MemoryCache) cleanupExpired() {
	for {
		select {
		case <-mc.done:
			return
		case <-mc.cleanupTicker.C:
			mc.mu.Lock()
			for key, item := range mc.data {
				if item.expired() {
					delete(mc.data, key)
				}
			}
			mc.mu.Unlock()
		}
	}
}

// Close stops the cleanup ticker.
func (mc *MemoryCache) Close() error {
	mc.cleanupTicker.Stop()
	close(mc.done)
	return nil
}
