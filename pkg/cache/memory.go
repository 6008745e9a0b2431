package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const defaultMemoryTTL = 24 * time.Hour

type memoryEntry struct {
	value    any
	expireAt time.Time
}

func (e *memoryEntry) expired() bool {
	return time.Now().After(e.expireAt)
}

// MemoryCache is an in-process Service with LRU eviction. Used as the L1
// tier of LayeredCache and as the standalone cache when Redis is not
// configured.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*memoryEntry
	lastAccess map[string]time.Time
	maxEntries int
	janitor    *time.Ticker
}

func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxEntries:      1000,
		CleanupInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		entries:    make(map[string]*memoryEntry),
		lastAccess: make(map[string]time.Time),
		maxEntries: cfg.MaxEntries,
		janitor:    time.NewTicker(cfg.CleanupInterval),
	}
	go mc.sweep()
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.entries) >= mc.maxEntries {
		mc.evictOldest()
	}

	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}

	// Serialize the way the Redis tier does, so Get/MGet behave
	// identically across backends.
	stored := value
	switch v := value.(type) {
	case string, int64:
	case []byte:
		stored = string(v)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		stored = string(data)
	}

	mc.entries[key] = &memoryEntry{value: stored, expireAt: time.Now().Add(ttl)}
	mc.lastAccess[key] = time.Now()
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest any) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	e, ok := mc.entries[key]
	if !ok || e.expired() {
		if ok {
			delete(mc.entries, key)
			delete(mc.lastAccess, key)
		}
		return ErrCacheMiss
	}
	mc.lastAccess[key] = time.Now()

	s, ok := e.value.(string)
	if !ok {
		return fmt.Errorf("memory cache: %q holds non-string value %T", key, e.value)
	}
	if d, ok := dest.(*string); ok {
		*d = s
		return nil
	}
	return json.Unmarshal([]byte(s), dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, key := range keys {
		delete(mc.entries, key)
		delete(mc.lastAccess, key)
	}
	return nil
}

// DeleteByPattern drops everything; per-pattern matching is only needed
// on the Redis tier and the memory tier repopulates on demand.
func (mc *MemoryCache) DeleteByPattern(_ context.Context, _ string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.entries = make(map[string]*memoryEntry)
	mc.lastAccess = make(map[string]time.Time)
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	for _, key := range keys {
		if e, ok := mc.entries[key]; ok && !e.expired() {
			return true, nil
		}
	}
	return false, nil
}

func (mc *MemoryCache) Increment(_ context.Context, key string) (int64, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	e, ok := mc.entries[key]
	if !ok || e.expired() {
		mc.entries[key] = &memoryEntry{value: int64(1), expireAt: time.Now().Add(defaultMemoryTTL)}
		return 1, nil
	}
	n, ok := e.value.(int64)
	if !ok {
		return 0, fmt.Errorf("memory cache: %q holds non-counter value", key)
	}
	e.value = n + 1
	return n + 1, nil
}

func (mc *MemoryCache) Expire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if e, ok := mc.entries[key]; ok {
		e.expireAt = time.Now().Add(ttl)
		return true, nil
	}
	return false, nil
}

func (mc *MemoryCache) MSet(ctx context.Context, values map[string]any, ttl time.Duration) error {
	for key, value := range values {
		if err := mc.Set(ctx, key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}

func (mc *MemoryCache) MGet(_ context.Context, keys ...string) (map[string]string, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	out := make(map[string]string)
	for _, key := range keys {
		if e, ok := mc.entries[key]; ok && !e.expired() {
			if s, ok := e.value.(string); ok {
				out[key] = s
			}
		}
	}
	return out, nil
}

func (mc *MemoryCache) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if e, ok := mc.entries[key]; ok && !e.expired() {
		return false, nil
	}
	mc.entries[key] = &memoryEntry{value: "locked", expireAt: time.Now().Add(ttl)}
	return true, nil
}

func (mc *MemoryCache) Unlock(ctx context.Context, key string) error {
	return mc.Delete(ctx, key)
}

func (mc *MemoryCache) Close() error {
	if mc.janitor != nil {
		mc.janitor.Stop()
	}
	return nil
}

func (mc *MemoryCache) evictOldest() {
	if len(mc.entries) == 0 {
		return
	}
	var oldestKey string
	oldest := time.Now()
	for key, t := range mc.lastAccess {
		if t.Before(oldest) {
			oldest = t
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(mc.entries, oldestKey)
		delete(mc.lastAccess, oldestKey)
	}
}

func (mc *MemoryCache) sweep() {
	for range mc.janitor.C {
		mc.mu.Lock()
		now := time.Now()
		for key, e := range mc.entries {
			if now.After(e.expireAt) {
				delete(mc.entries, key)
				delete(mc.lastAccess, key)
			}
		}
		mc.mu.Unlock()
	}
}
