// Package cache stores raw sheet export bodies in memory or in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ukaji3/sheetsections-go/internal/config"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/fetch"
)

// KeyPrefix namespaces every key written to Redis.
const KeyPrefix = "sheetsections:"

// New creates the cache selected by cfg.Backend. The "none" backend returns a
// nil cache, which disables caching.
func New(cfg config.CacheConfig) (fetch.Cache, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemory(), nil
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return NewRedis(redis.NewClient(opts)), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process cache with per-entry expiry.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty Memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get returns the value stored under key unless it has expired.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !m.expired(entry) {
		return entry.value, true, nil
	}

	// A Set may have replaced the entry since the read lock was released.
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok = m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if m.expired(entry) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *Memory) expired(entry memoryEntry) bool {
	return !entry.expires.IsZero() && !m.now().Before(entry.expires)
}

// Set stores value under key. A ttl of zero never expires.
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Redis stores entries in a Redis server.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps a go-redis client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get returns the value stored under key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

// Set stores value under key. A ttl of zero never expires.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, KeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
