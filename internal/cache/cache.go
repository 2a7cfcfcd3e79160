// Package cache provides a small TTL cache for scraped week results so
// repeated requests for the same (year, week) don't re-hit the source site.
//
// Redis is used when REDIS_URL is configured and reachable; otherwise an
// in-process memory cache takes over. Either way the cache is best-effort:
// a miss or error simply means the week is scraped again.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores serialized week results with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

// WeekKey builds the cache key for a scraped (year, week) pair.
func WeekKey(year, week int) string {
	return fmt.Sprintf("macrocal:week:%d-W%02d", year, week)
}

// New returns a Redis-backed cache when redisURL parses and the server
// responds to a ping, falling back to an in-memory cache otherwise.
func New(redisURL string) Cache {
	if redisURL == "" {
		return NewMemory()
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return NewMemory()
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return NewMemory()
	}
	return &Redis{client: client}
}

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client *redis.Client
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	r.client.Set(ctx, key, val, ttl)
}

// Memory is an in-process Cache with per-entry expiry.
type Memory struct {
	mu    sync.Mutex
	items map[string]memItem
}

type memItem struct {
	val []byte
	exp time.Time
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]memItem)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if !it.exp.IsZero() && time.Now().After(it.exp) {
		delete(m.items, key)
		return nil, false
	}
	return it.val, true
}

func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	m.items[key] = memItem{val: val, exp: exp}
}

// Marshal serializes a value for caching.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal deserializes a cached value.
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
