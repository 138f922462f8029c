package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a store that evicts entries after retention.
func NewMemoryStore(retention time.Duration) *MemoryStore {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &MemoryStore{
		cache: gocache.New(retention, retention/2),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, error) {
	val, found := s.cache.Get(key)
	if !found {
		return Entry{}, ErrMiss
	}
	entry, ok := val.(Entry)
	if !ok {
		return Entry{}, ErrMiss
	}
	return entry, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, entry Entry) error {
	s.cache.Set(key, entry, gocache.DefaultExpiration)
	return nil
}
