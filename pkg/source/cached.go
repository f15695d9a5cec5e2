package source

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/memgraph/pkg/cache"
	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/observability"
)

// Cached serves repeated requests from a cache. Cache failures never fail a
// fetch; they only cost a round trip to the inner source.
type Cached struct {
	inner Source
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// CachedOption configures a Cached source.
type CachedOption func(*Cached)

// WithKeyer replaces the default keyer, e.g. with a scoped one.
func WithKeyer(k cache.Keyer) CachedOption {
	return func(c *Cached) { c.keyer = k }
}

// NewCached wraps inner with c. A ttl of zero uses cache.DefaultTTL.
func NewCached(inner Source, c cache.Cache, ttl time.Duration, opts ...CachedOption) *Cached {
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}
	cs := &Cached{inner: inner, cache: c, keyer: cache.NewDefaultKeyer(), ttl: ttl}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// Name returns the inner source's name.
func (c *Cached) Name() string { return c.inner.Name() }

// Fetch returns a cached snapshot when one is fresh, otherwise fetches and
// stores it.
func (c *Cached) Fetch(ctx context.Context, req Request) (*graph.Data, error) {
	req = req.Normalize()
	key := c.key(req)
	hooks := observability.Cache()

	if raw, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		if data, err := graph.Unmarshal(raw); err == nil {
			hooks.OnCacheHit(ctx, key)
			return data, nil
		}
	}
	hooks.OnCacheMiss(ctx, key)

	data, err := c.inner.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if raw, err := graph.Marshal(data); err == nil {
		if c.cache.Set(ctx, key, raw, c.ttl) == nil {
			hooks.OnCacheSet(ctx, key, len(raw))
		}
	}
	return data, nil
}

// Invalidate drops the cached response for req.
func (c *Cached) Invalidate(ctx context.Context, req Request) error {
	if err := c.cache.Delete(ctx, c.key(req.Normalize())); err != nil {
		return fmt.Errorf("invalidate %s: %w", c.Name(), err)
	}
	return nil
}

// Close closes the inner source if it holds connections.
func (c *Cached) Close(ctx context.Context) error {
	if cl, ok := c.inner.(Closer); ok {
		return cl.Close(ctx)
	}
	return nil
}

func (c *Cached) key(req Request) string {
	return c.keyer.GraphKey(c.inner.Name(), req.Query, req.MinStrength)
}

var (
	_ Source      = (*Cached)(nil)
	_ Invalidator = (*Cached)(nil)
	_ Source      = (*Static)(nil)
)
