package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Service is the cache surface used by the series cache and the refresh
// scheduler. Implementations: MemoryCache, RedisCache, LayeredCache.
type Service interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string, dest any) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	MSet(ctx context.Context, values map[string]any, ttl time.Duration) error
	MGet(ctx context.Context, keys ...string) (map[string]string, error)
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// MGetTyped fetches several keys and unmarshals each hit into T. Keys
// that miss or hold invalid JSON are silently absent from the result.
func MGetTyped[T any](ctx context.Context, c Service, keys ...string) (map[string]T, error) {
	if len(keys) == 0 {
		return map[string]T{}, nil
	}

	raw, err := c.MGet(ctx, keys...)
	if err != nil {
		return nil, err
	}

	out := make(map[string]T, len(raw))
	for key, val := range raw {
		var obj T
		if err := json.Unmarshal([]byte(val), &obj); err != nil {
			continue
		}
		out[key] = obj
	}
	return out, nil
}

// Key joins parts into a colon-separated cache key, e.g.
// Key("series", "SPY", "5m") -> "series:SPY:5m".
func Key(parts ...any) string {
	key := ""
	for i, p := range parts {
		if i == 0 {
			key = fmt.Sprintf("%v", p)
			continue
		}
		key = fmt.Sprintf("%s:%v", key, p)
	}
	return key
}

// Pattern builds a glob matching every key under a prefix.
func Pattern(prefix string) string {
	return prefix + "*"
}
