package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yab-g4u/IDA-sub000/internal/domain/providers"
)

// MemoryAdapter is an in-process CacheProvider used when Redis is not
// configured. Entries are lost on restart.
type MemoryAdapter struct {
	store *gocache.Cache
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)

// NewMemoryAdapter creates a cache whose entries default to defaultTTL and
// are purged every cleanupInterval.
func NewMemoryAdapter(defaultTTL, cleanupInterval time.Duration) *MemoryAdapter {
	return &MemoryAdapter{store: gocache.New(defaultTTL, cleanupInterval)}
}

func (a *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := a.store.Get(key)
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// Set stores a copy of value. A non-positive expiration uses the cache
// default TTL.
func (a *MemoryAdapter) Set(_ context.Context, key string, value []byte, expirationSeconds int) error {
	ttl := gocache.DefaultExpiration
	if expirationSeconds > 0 {
		ttl = time.Duration(expirationSeconds) * time.Second
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	a.store.Set(key, stored, ttl)
	return nil
}

func (a *MemoryAdapter) Delete(_ context.Context, key string) error {
	a.store.Delete(key)
	return nil
}

func (a *MemoryAdapter) Exists(_ context.Context, key string) (bool, error) {
	_, ok := a.store.Get(key)
	return ok, nil
}

// Flush drops every entry.
func (a *MemoryAdapter) Flush() {
	a.store.Flush()
}

// ItemCount reports the number of stored entries, including expired ones
// not yet purged.
func (a *MemoryAdapter) ItemCount() int {
	return a.store.ItemCount()
}
