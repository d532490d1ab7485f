// Package cache provides the storage layer for pipeline results.
//
// Compositions are deterministic for a given seed and option set, so the
// pipeline caches them, their fill results and rendered artifacts under keys
// derived by a [Keyer]. Three backends implement [Cache]:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Get returns (nil, false, nil) on a miss. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLs for the cached pipeline stages. A TTL of 0 means no expiry.
const (
	TTLComposition = 7 * 24 * time.Hour
	TTLFill        = 7 * 24 * time.Hour
	TTLArtifact    = 30 * 24 * time.Hour
)
