package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCodeNotFound is returned when a key is absent or already expired.
var ErrCodeNotFound = errors.New("code not found")

// TTLStore is an expiring key-value store for one-time codes (post share
// links). TTL handling belongs to the store, not to callers keeping
// their own expiry bookkeeping.
type TTLStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}

type RedisStore struct {
	C *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{C: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *RedisStore) Ping(ctx context.Context) error { return r.C.Ping(ctx).Err() }
func (r *RedisStore) Close() error                   { return r.C.Close() }

func (r *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.C.Set(ctx, key, value, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := r.C.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	return v, err
}

func (r *RedisStore) Del(ctx context.Context, key string) error {
	return r.C.Del(ctx, key).Err()
}

// MemoryStore backs dev setups and tests where Redis is not configured.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
}

type memoryItem struct {
	value     string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem)}
}

func (m *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryItem{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	if !ok || time.Now().After(it.expiresAt) {
		delete(m.items, key)
		return "", ErrCodeNotFound
	}
	return it.value, nil
}

func (m *MemoryStore) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
