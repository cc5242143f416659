// Package cache stores serialized analysis results keyed by a digest of
// their input. Analyses are deterministic, so a hit is always valid until
// its TTL lapses.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"bombardier/internal/config"
	"bombardier/internal/logging"
	"bombardier/internal/metrics"
)

// Cache is a byte-value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// New builds the backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case config.CacheMemory, "":
		return NewMemory(cfg.MaxEntries), nil
	case config.CacheRedis:
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedis(client, "bombardier:"), nil
	case config.CacheNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Key returns a stable digest of op and the JSON encoding of input.
func Key(op string, input any) (string, error) {
	b, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte(op+":"), b...))
	return op + ":" + hex.EncodeToString(sum[:]), nil
}

// Loader fronts a Cache: concurrent misses for one key share a single load
// and backend failures fall through to computing the value.
type Loader struct {
	backend Cache
	ttl     time.Duration
	sf      singleflight.Group
}

func NewLoader(backend Cache, ttl time.Duration) *Loader {
	return &Loader{backend: backend, ttl: ttl}
}

// Fetch returns the value cached under key, or computes it with load and
// stores it.
func (l *Loader) Fetch(ctx context.Context, key string, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, ok, err := l.backend.Get(ctx, key); err != nil {
		metrics.IncCache(metrics.CacheError)
		logging.Warn("cache_error", logging.Fields{"op": "get", "error": err.Error()})
	} else if ok {
		metrics.IncCache(metrics.CacheHit)
		return b, nil
	}
	metrics.IncCache(metrics.CacheMiss)

	v, err, _ := l.sf.Do(key, func() (any, error) {
		b, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := l.backend.Set(ctx, key, b, l.ttl); err != nil {
			metrics.IncCache(metrics.CacheError)
			logging.Warn("cache_error", logging.Fields{"op": "set", "error": err.Error()})
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
