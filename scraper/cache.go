package scraper

import (
	"context"
	"errors"
	"github.com/redis/go-redis/v9"
	"sync"
	"time"
)

// Cache keeps fetched pages by URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type entry struct {
	value   []byte
	expires time.Time
}

type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]entry{}, now: time.Now}
}

func (it *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	it.mu.Lock()
	defer it.mu.Unlock()
	e, ok := it.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !it.now().Before(e.expires) {
		delete(it.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value; a ttl of zero keeps it until the process exits.
func (it *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	e := entry{value: value}
	if ttl > 0 {
		e.expires = it.now().Add(ttl)
	}
	it.entries[key] = e
	return nil
}

func (it *MemoryCache) Len() int {
	it.mu.Lock()
	defer it.mu.Unlock()
	return len(it.entries)
}

type RedisCache struct {
	Client *redis.Client
	Prefix string
}

// NewRedisCache connects to a redis:// URL.
func NewRedisCache(ctx context.Context, rawURL string, prefix string) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisCache{Client: client, Prefix: prefix}, nil
}

func (it *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := it.Client.Get(ctx, it.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (it *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return it.Client.Set(ctx, it.Prefix+key, value, ttl).Err()
}

func (it *RedisCache) Close() error {
	return it.Client.Close()
}
