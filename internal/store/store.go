// Package store keeps rendered LaTeX output keyed by content hash, so a
// document submitted twice is rendered once.
//
// Two backends implement Store:
//   - Memory: process-local map with per-entry expiry, for development
//     and single-instance deployments
//   - Redis: shared storage for multi-instance deployments
package store

import (
	"context"
	"time"

	"github.com/dgallion1/texgen/internal/config"
)

// Store is the interface for rendered-output backends.
type Store interface {
	// Get returns the stored bytes and whether the key was present.
	// Expired entries are reported as absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores data under key. A ttl <= 0 keeps the entry until Close.
	Put(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Cleanup removes expired entries (no-op for Redis, which expires
	// keys itself).
	Cleanup(ctx context.Context) error

	Close() error
}

// Open returns the backend selected by cfg: Redis when RedisURL is set,
// otherwise an in-memory store.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	if cfg.RedisURL == "" {
		return NewMemory(), nil
	}
	r, err := NewRedis(cfg.RedisURL, cfg.RedisPrefix)
	if err != nil {
		return nil, err
	}
	if err := r.Ping(ctx); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}
