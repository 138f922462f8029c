package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares entries between instances. Entries are JSON encoded under prefix+key.
type RedisStore struct {
	rdb       *redis.Client
	prefix    string
	retention time.Duration
}

func NewRedisStore(rdb *redis.Client, prefix string, retention time.Duration) *RedisStore {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, prefix: prefix, retention: retention}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, error) {
	raw, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, ErrMiss
		}
		return Entry{}, fmt.Errorf("redis get %s: %w", key, err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return entry, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, s.prefix+key, raw, s.retention).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
