package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"rainier-guide-be/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

var cacheTracer = otel.Tracer("cache.loader")

// FetchFunc produces a new payload for a key.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Loader is a read-through cache with stale fallback.
// Concurrent misses for the same key share one refresh.
type Loader struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
	group  singleflight.Group
}

func NewLoader(store Store, logger *log.Logger) *Loader {
	return &Loader{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (l *Loader) WithClock(now func() time.Time) *Loader {
	l.now = now
	return l
}

// Fetch returns the fresh entry for key, or refreshes it with fetch.
// When the refresh fails and a stale entry exists, the stale value is returned with a nil error.
func (l *Loader) Fetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) ([]byte, error) {
	ctx, span := cacheTracer.Start(ctx, "cache.Fetch",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	label := keyLabel(key)

	entry, found := l.lookup(ctx, key)
	if found && entry.Fresh(l.now()) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		metrics.RecordCacheLookup(label, "hit")
		return entry.Value, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	result, err, shared := l.group.Do(key, func() (interface{}, error) {
		// Another caller may have refreshed while we waited.
		if current, ok := l.lookup(ctx, key); ok && current.Fresh(l.now()) {
			return current.Value, nil
		}

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		now := l.now()
		if err := l.store.Set(ctx, key, Entry{Value: value, StoredAt: now, ExpiresAt: now.Add(ttl)}); err != nil {
			l.logger.Printf("[CACHE] write %s failed: %v", key, err)
		}
		return value, nil
	})
	span.SetAttributes(attribute.Bool("cache.shared", shared))

	if err != nil {
		span.RecordError(err)
		if found {
			l.logger.Printf("[CACHE] refresh %s failed, serving entry stored at %s: %v",
				key, entry.StoredAt.Format(time.RFC3339), err)
			metrics.RecordCacheLookup(label, "stale")
			return entry.Value, nil
		}
		metrics.RecordCacheLookup(label, "miss")
		return nil, err
	}

	metrics.RecordCacheLookup(label, "miss")
	return result.([]byte), nil
}

func (l *Loader) lookup(ctx context.Context, key string) (Entry, bool) {
	entry, err := l.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			l.logger.Printf("[CACHE] read %s failed: %v", key, err)
		}
		return Entry{}, false
	}
	return entry, true
}

// FetchJSON is Fetch for JSON encoded values.
func FetchJSON[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := l.Fetch(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return out, nil
}

// keyLabel keeps metric cardinality bounded: "weather:46.85,-121.76" -> "weather".
func keyLabel(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
