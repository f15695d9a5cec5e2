// Package cache stores fetched graph responses between runs.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: shared entries in Redis, for the demo server and
//     multi-user setups
//   - [NullCache]: caching disabled
//
// All backends store opaque bytes with an optional TTL. Keys come from a
// [Keyer] so that different sources and filters never share entries.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiry. Get reports a miss as (nil, false, nil);
// errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// DefaultTTL is how long a fetched graph stays fresh.
const DefaultTTL = 5 * time.Minute
